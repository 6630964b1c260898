package content

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFNormalizer extracts plain text from a base64-encoded PDF document.
// Table and image recovery require OCR tooling outside this module's scope;
// callers that run OCR can populate Extracted.ImageTexts through their own
// Normalizer and register it for InputTypePDF.
type PDFNormalizer struct {
	logger *slog.Logger
}

var _ Normalizer = (*PDFNormalizer)(nil)

// NewPDFNormalizer creates a normalizer for base64-encoded PDF input.
func NewPDFNormalizer() *PDFNormalizer {
	return &PDFNormalizer{
		logger: slog.Default().With("component", "pdf-normalizer"),
	}
}

// Extract decodes and parses the PDF, returning its concatenated page text.
func (n *PDFNormalizer) Extract(ctx context.Context, encoded string) (*Extracted, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decode pdf: %w", ErrExtraction, err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		n.logger.Error("failed to parse pdf", "bytes", len(raw), "err", err)
		return nil, fmt.Errorf("%w: parse pdf: %w", ErrExtraction, err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("%w: read pdf text: %w", ErrExtraction, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(textReader); err != nil {
		return nil, fmt.Errorf("%w: read pdf text: %w", ErrExtraction, err)
	}

	text := strings.TrimSpace(whitespaceRE.ReplaceAllString(buf.String(), " "))
	if text == "" {
		return nil, fmt.Errorf("%w: %w: pdf has no text layer", ErrExtraction, ErrNoContent)
	}

	return &Extracted{Text: text}, nil
}
