package content

import (
	"context"
	"strings"
)

// TextNormalizer passes raw text through unchanged apart from trimming.
type TextNormalizer struct{}

var _ Normalizer = (*TextNormalizer)(nil)

// NewTextNormalizer creates a normalizer for raw text input.
func NewTextNormalizer() *TextNormalizer {
	return &TextNormalizer{}
}

// Extract returns the input text as-is. Empty input is not an error; the
// chunker produces no chunks for it.
func (n *TextNormalizer) Extract(ctx context.Context, input string) (*Extracted, error) {
	return &Extracted{Text: strings.TrimSpace(input)}, nil
}
