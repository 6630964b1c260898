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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/poiesic/capsule/ai"
	"github.com/poiesic/capsule/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// TopicExtractor implements ai.TopicExtractor using OpenAI-compatible chat APIs.
type TopicExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// topicAttributes is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type topicAttributes struct {
	Field           string `json:"field"`
	SubField        string `json:"sub_field"`
	SubjectMatter   string `json:"subject_matter"`
	Relevance       string `json:"relevance"`
	PotentialImpact string `json:"potential_impact"`
	Hotness         string `json:"hotness"`
}

type topic struct {
	Topic      string          `json:"topic"`
	Attributes topicAttributes `json:"attributes"`
}

// topicList is the wrapper structure for the LLM's JSON response.
type topicList struct {
	Topics []topic `json:"topics"`
}

// newTopicExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newTopicExtractor(config *ai.Config) (*TopicExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ExtractorHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.ExtractorModel),
	)
	if err != nil {
		return nil, err
	}

	return &TopicExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-extractor"),
	}, nil
}

// NewTopicExtractor creates a new topic extractor using the provided configuration.
//
// Returns ai.TopicExtractor interface to enforce abstraction.
func NewTopicExtractor(config *ai.Config) (ai.TopicExtractor, error) {
	return newTopicExtractor(config)
}

// ExtractTopics extracts knowledge-capsule candidates from a text chunk using
// an LLM. Malformed candidates (empty name, unknown hotness after
// normalization) are dropped rather than failing the call.
func (e *TopicExtractor) ExtractTopics(ctx context.Context, text string) ([]core.Topic, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Text chunk: " + text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result topicList
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := e.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			e.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			e.logger.Debug("no choices returned from model")
			return []core.Topic{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			e.logger.Warn("error parsing extractor response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		e.logger.Error("failed to parse extractor response after retries", "err", lastErr)
		return nil, lastErr
	}

	extracted := make([]core.Topic, 0, len(result.Topics))
	for _, t := range result.Topics {
		candidate := core.Topic{
			Name: strings.TrimSpace(t.Topic),
			Attributes: core.TopicAttributes{
				Field:           t.Attributes.Field,
				SubField:        t.Attributes.SubField,
				SubjectMatter:   t.Attributes.SubjectMatter,
				Relevance:       t.Attributes.Relevance,
				PotentialImpact: t.Attributes.PotentialImpact,
				Hotness:         normalizeHotness(t.Attributes.Hotness),
			},
		}
		if err := core.ValidateTopic(&candidate); err != nil {
			e.logger.Warn("dropping invalid topic candidate", "topic", t.Topic, "err", err)
			continue
		}
		extracted = append(extracted, candidate)
	}

	e.logger.Debug("extracted topics",
		"total", len(result.Topics),
		"valid", len(extracted))

	return extracted, nil
}

// normalizeHotness maps model output variants ("high", "HIGH", "(High)") onto
// the canonical ordinal levels. Unknown values are returned unchanged so
// validation can drop the candidate.
func normalizeHotness(hotness string) string {
	cleaned := strings.Trim(strings.TrimSpace(hotness), "()")
	switch strings.ToLower(cleaned) {
	case "high":
		return core.HotnessHigh
	case "medium", "med":
		return core.HotnessMedium
	case "low":
		return core.HotnessLow
	default:
		return hotness
	}
}
