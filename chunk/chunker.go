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

import (
	"strings"
	"unicode"
)

const (
	// DefaultMaxTokens bounds a chunk to fit comfortably inside the
	// extraction model's context window.
	DefaultMaxTokens = 512

	// DefaultOverlap is the token overlap between consecutive windows when
	// a single sentence exceeds the chunk budget.
	DefaultOverlap = 10
)

// Chunker splits text into chunks of at most maxTokens tokens, keeping
// sentences intact where possible. A sentence that alone exceeds the budget
// is split into overlapping token windows instead.
type Chunker struct {
	tok       Tokenizer
	maxTokens int
	overlap   int
}

// ChunkerOption configures a Chunker.
type ChunkerOption func(*Chunker)

// WithMaxTokens sets the chunk token budget.
func WithMaxTokens(n int) ChunkerOption {
	return func(c *Chunker) { c.maxTokens = n }
}

// WithOverlap sets the window overlap for oversized sentences.
func WithOverlap(n int) ChunkerOption {
	return func(c *Chunker) { c.overlap = n }
}

// NewChunker creates a chunker over the given tokenizer.
func NewChunker(tok Tokenizer, opts ...ChunkerOption) (*Chunker, error) {
	c := &Chunker{
		tok:       tok,
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if tok == nil {
		return nil, ErrNilTokenizer
	}
	if c.maxTokens <= 0 {
		return nil, ErrInvalidBudget
	}
	if c.overlap < 0 || c.overlap >= c.maxTokens {
		return nil, ErrInvalidOverlap
	}
	return c, nil
}

// Chunk splits text into chunks of at most maxTokens tokens each. Sentences
// are accumulated greedily; a sentence that does not fit starts a new chunk,
// and a sentence that alone exceeds the budget is windowed with overlap.
// Empty or whitespace-only text yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentTokens = 0
		}
	}

	for _, sentence := range sentences {
		n := c.tok.Count(sentence)
		switch {
		case n > c.maxTokens:
			// The sentence alone blows the budget; emit what we have
			// and fall back to token windows.
			flush()
			chunks = append(chunks, c.tok.Window(sentence, c.maxTokens, c.maxTokens-c.overlap)...)
		case currentTokens+n > c.maxTokens:
			flush()
			current = append(current, sentence)
			currentTokens = n
		default:
			current = append(current, sentence)
			currentTokens += n
		}
	}
	flush()

	return chunks
}

// sentenceTerminators end a sentence when followed by whitespace or EOF.
var sentenceTerminators = map[rune]bool{'.': true, '!': true, '?': true}

// SplitSentences splits text on sentence-ending punctuation. Runs of
// terminators ("...", "?!") stay with their sentence, and the terminator
// must be followed by whitespace (or end the text) to count, which keeps
// decimals and most abbreviations intact.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	i := 0
	for i < len(runes) {
		if sentenceTerminators[runes[i]] {
			// Swallow the whole terminator run.
			for i+1 < len(runes) && sentenceTerminators[runes[i+1]] {
				i++
			}
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				sentence := strings.TrimSpace(string(runes[start : i+1]))
				if sentence != "" {
					sentences = append(sentences, sentence)
				}
				start = i + 1
			}
		}
		i++
	}
	if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
