package content

import (
	"context"
	"fmt"
)

// InputType identifies the kind of raw input handed to the engine.
type InputType string

const (
	// InputTypeText is raw text, passed through unchanged.
	InputTypeText InputType = "text"
	// InputTypeURL is a web page address to fetch and strip down to text.
	InputTypeURL InputType = "url"
	// InputTypePDF is a base64-encoded PDF document.
	InputTypePDF InputType = "pdf"
)

// Extracted is the normalized output of a content source: main text plus
// any tables and image-derived texts recovered from the source. Tables and
// image texts are extracted as independent units so the oracle can process
// them separately from the running text.
type Extracted struct {
	Text       string
	Tables     []string
	ImageTexts []string
}

// Normalizer turns one kind of raw input into normalized text.
// Implementations must be safe for concurrent use.
type Normalizer interface {
	// Extract normalizes the input. A failure here is fatal to the whole
	// ingestion request and is reported wrapped in ErrExtraction.
	Extract(ctx context.Context, input string) (*Extracted, error)
}

// Registry maps input types to their normalizers.
type Registry struct {
	normalizers map[InputType]Normalizer
}

// NewRegistry creates a registry with the built-in normalizers for
// text, url and pdf inputs.
func NewRegistry() *Registry {
	return &Registry{
		normalizers: map[InputType]Normalizer{
			InputTypeText: NewTextNormalizer(),
			InputTypeURL:  NewURLNormalizer(),
			InputTypePDF:  NewPDFNormalizer(),
		},
	}
}

// Register installs or replaces the normalizer for an input type.
// Tests use this to inject fakes.
func (r *Registry) Register(inputType InputType, normalizer Normalizer) {
	r.normalizers[inputType] = normalizer
}

// Get returns the normalizer for the input type, or ErrUnsupportedInput.
func (r *Registry) Get(inputType InputType) (Normalizer, error) {
	normalizer, ok := r.normalizers[inputType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedInput, inputType)
	}
	return normalizer, nil
}
