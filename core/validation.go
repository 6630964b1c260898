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

import "fmt"

// ValidateTopic validates a Topic according to domain rules.
//
// Validation rules:
//   - Name must not be empty
//   - Hotness must be one of High, Medium, Low (empty is allowed for
//     candidates the oracle did not rate)
//
// The free-text attribute fields are not validated; the oracle may leave
// any of them empty.
func ValidateTopic(topic *Topic) error {
	if topic == nil {
		return fmt.Errorf("%w: topic is nil", ErrInvalidTopic)
	}

	if topic.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTopic, ErrEmptyTopicName)
	}

	if topic.Attributes.Hotness != "" && !IsValidHotness(topic.Attributes.Hotness) {
		return fmt.Errorf("%w: %w: %q", ErrInvalidTopic, ErrInvalidHotness, topic.Attributes.Hotness)
	}

	return nil
}

// ValidateStoredTopic validates a StoredTopic before persistence.
//
// Validation rules:
//   - The embedded Topic must be valid
//   - Vector must not be empty
//
// NOT validated (populated by the store):
//   - Key (empty means the store assigns a fresh surrogate key)
//   - StoredAt (set by the store at write time)
func ValidateStoredTopic(record *StoredTopic) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidStoredTopic)
	}

	if err := ValidateTopic(&record.Topic); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidStoredTopic, err)
	}

	if len(record.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidStoredTopic, ErrEmptyVector)
	}

	return nil
}

// IsValidHotness checks that a hotness value is one of the ordinal levels.
func IsValidHotness(hotness string) bool {
	return hotness == HotnessHigh || hotness == HotnessMedium || hotness == HotnessLow
}
