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

package ingest

import "errors"

var (
	// ErrRegistryRequired is returned when a pipeline is built without a
	// content registry.
	ErrRegistryRequired = errors.New("content registry is required")

	// ErrChunkerRequired is returned when a pipeline is built without a chunker.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrExtractorRequired is returned when a pipeline is built without an
	// extraction oracle.
	ErrExtractorRequired = errors.New("topic extractor is required")
)
