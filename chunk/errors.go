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

package chunk

import "errors"

var (
	// ErrNilTokenizer is returned when a chunker is built without a tokenizer.
	ErrNilTokenizer = errors.New("tokenizer is nil")

	// ErrInvalidBudget is returned when the chunk token budget is not positive.
	ErrInvalidBudget = errors.New("max tokens must be positive")

	// ErrInvalidOverlap is returned when the window overlap is negative or
	// not smaller than the chunk budget.
	ErrInvalidOverlap = errors.New("overlap must be non-negative and smaller than max tokens")
)
