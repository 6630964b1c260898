// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package content

import "errors"

var (
	// ErrExtraction indicates content normalization failed. This aborts the
	// whole ingestion request before any chunk is attempted.
	ErrExtraction = errors.New("content extraction failed")

	// ErrUnsupportedInput indicates an unknown input type.
	ErrUnsupportedInput = errors.New("unsupported input type")

	// ErrNoContent indicates the source yielded no readable text.
	ErrNoContent = errors.New("no readable content found")
)
