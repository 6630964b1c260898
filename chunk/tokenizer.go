package chunk

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Tokenizer measures and slices text in token units. The chunker is written
// against this interface so tests can use a cheap word tokenizer while
// production counts real BPE tokens.
type Tokenizer interface {
	// Count returns the number of tokens in text.
	Count(text string) int
	// Window returns overlapping token windows of at most width tokens,
	// advancing step tokens between windows, decoded back to text.
	Window(text string, width, step int) []string
}

const defaultEncoding = "cl100k_base"

// TiktokenTokenizer counts BPE tokens with tiktoken. Matches the token
// accounting of the embedding and chat models served through OpenAI-style
// endpoints.
type TiktokenTokenizer struct {
	enc *tiktoken.Tiktoken
}

var _ Tokenizer = (*TiktokenTokenizer)(nil)

// NewTiktokenTokenizer creates a tokenizer for the cl100k_base encoding.
// The encoding table is fetched on first use unless TIKTOKEN_CACHE_DIR
// points at a pre-populated cache.
func NewTiktokenTokenizer() (*TiktokenTokenizer, error) {
	enc, err := tiktoken.GetEncoding(defaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", defaultEncoding, err)
	}
	return &TiktokenTokenizer{enc: enc}, nil
}

func (t *TiktokenTokenizer) Count(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

func (t *TiktokenTokenizer) Window(text string, width, step int) []string {
	tokens := t.enc.Encode(text, nil, nil)
	var windows []string
	for start := 0; start < len(tokens); start += step {
		end := start + width
		if end > len(tokens) {
			end = len(tokens)
		}
		windows = append(windows, t.enc.Decode(tokens[start:end]))
		if end == len(tokens) {
			break
		}
	}
	return windows
}

// WordTokenizer treats whitespace-separated words as tokens. It trades
// accuracy for determinism and zero setup, which is what tests want.
type WordTokenizer struct{}

var _ Tokenizer = (*WordTokenizer)(nil)

func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

func (t *WordTokenizer) Count(text string) int {
	return len(strings.Fields(text))
}

func (t *WordTokenizer) Window(text string, width, step int) []string {
	words := strings.Fields(text)
	var windows []string
	for start := 0; start < len(words); start += step {
		end := start + width
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return windows
}
