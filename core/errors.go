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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidTopic indicates a Topic failed validation.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrEmptyTopicName indicates the topic Name field is empty.
	ErrEmptyTopicName = errors.New("topic name cannot be empty")

	// ErrInvalidHotness indicates the Hotness attribute is not High/Medium/Low.
	ErrInvalidHotness = errors.New("hotness must be High, Medium or Low")

	// ErrInvalidStoredTopic indicates a StoredTopic failed validation.
	ErrInvalidStoredTopic = errors.New("invalid stored topic")

	// ErrEmptyVector indicates a stored topic carries no embedding.
	ErrEmptyVector = errors.New("embedding vector cannot be empty")
)
