package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker_Validation(t *testing.T) {
	tok := NewWordTokenizer()

	tests := []struct {
		name    string
		tok     Tokenizer
		opts    []ChunkerOption
		wantErr error
	}{
		{"defaults", tok, nil, nil},
		{"nil tokenizer", nil, nil, ErrNilTokenizer},
		{"zero budget", tok, []ChunkerOption{WithMaxTokens(0)}, ErrInvalidBudget},
		{"negative budget", tok, []ChunkerOption{WithMaxTokens(-1)}, ErrInvalidBudget},
		{"negative overlap", tok, []ChunkerOption{WithOverlap(-1)}, ErrInvalidOverlap},
		{"overlap equals budget", tok, []ChunkerOption{WithMaxTokens(10), WithOverlap(10)}, ErrInvalidOverlap},
		{"overlap exceeds budget", tok, []ChunkerOption{WithMaxTokens(10), WithOverlap(11)}, ErrInvalidOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.tok, tt.opts...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestChunker_Chunk(t *testing.T) {
	tok := NewWordTokenizer()

	t.Run("empty text yields no chunks", func(t *testing.T) {
		c, err := NewChunker(tok)
		require.NoError(t, err)
		assert.Empty(t, c.Chunk(""))
		assert.Empty(t, c.Chunk("   \n\t  "))
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		c, err := NewChunker(tok)
		require.NoError(t, err)
		chunks := c.Chunk("Quantum computing will change cryptography.")
		require.Len(t, chunks, 1)
		assert.Equal(t, "Quantum computing will change cryptography.", chunks[0])
	})

	t.Run("text exactly at the budget is a single chunk", func(t *testing.T) {
		c, err := NewChunker(tok, WithMaxTokens(8), WithOverlap(2))
		require.NoError(t, err)

		// Two sentences of four words each, eight tokens total.
		text := "One two three four. Five six seven eight."
		chunks := c.Chunk(text)
		require.Len(t, chunks, 1)
		assert.Equal(t, text, chunks[0])
	})

	t.Run("sentences never split across chunks", func(t *testing.T) {
		c, err := NewChunker(tok, WithMaxTokens(6), WithOverlap(1))
		require.NoError(t, err)

		chunks := c.Chunk("One two three four five. Six seven. Eight nine ten. Eleven twelve.")
		require.Len(t, chunks, 3)
		assert.Equal(t, "One two three four five.", chunks[0])
		assert.Equal(t, "Six seven. Eight nine ten.", chunks[1])
		assert.Equal(t, "Eleven twelve.", chunks[2])
		for _, chunk := range chunks {
			assert.LessOrEqual(t, tok.Count(chunk), 6)
		}
	})

	t.Run("oversized sentence is windowed with overlap", func(t *testing.T) {
		c, err := NewChunker(tok, WithMaxTokens(10), WithOverlap(2))
		require.NoError(t, err)

		// One 20-word sentence, twice the budget.
		words := make([]string, 20)
		for i := range words {
			words[i] = fmt.Sprintf("w%d", i)
		}
		sentence := strings.Join(words, " ") + "."

		chunks := c.Chunk(sentence)
		require.GreaterOrEqual(t, len(chunks), 2)
		for _, chunk := range chunks {
			assert.LessOrEqual(t, tok.Count(chunk), 10)
		}
		// Windows advance by budget-overlap, so consecutive windows share words.
		assert.Contains(t, chunks[0], "w8")
		assert.Contains(t, chunks[1], "w8")
		assert.Contains(t, chunks[1], "w9")
	})

	t.Run("oversized sentence resets accumulation", func(t *testing.T) {
		c, err := NewChunker(tok, WithMaxTokens(5), WithOverlap(1))
		require.NoError(t, err)

		chunks := c.Chunk("Short one. A very long sentence with far too many words inside it. Tail sentence here.")
		require.NotEmpty(t, chunks)
		assert.Equal(t, "Short one.", chunks[0])
		assert.Equal(t, "Tail sentence here.", chunks[len(chunks)-1])
		for _, chunk := range chunks {
			assert.LessOrEqual(t, tok.Count(chunk), 5)
		}
	})
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \n ", nil},
		{"no terminator", "no punctuation at all", []string{"no punctuation at all"}},
		{
			"basic split",
			"First sentence. Second sentence! Third sentence?",
			[]string{"First sentence.", "Second sentence!", "Third sentence?"},
		},
		{
			"terminator runs stay together",
			"Really?! Yes... Fine.",
			[]string{"Really?!", "Yes...", "Fine."},
		},
		{
			"decimals do not split",
			"Pi is 3.14 roughly. Euler is 2.71.",
			[]string{"Pi is 3.14 roughly.", "Euler is 2.71."},
		},
		{
			"trailing text without terminator",
			"Done here. And a trailing fragment",
			[]string{"Done here.", "And a trailing fragment"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}

func TestWordTokenizer_Window(t *testing.T) {
	tok := NewWordTokenizer()

	windows := tok.Window("a b c d e f g", 3, 2)
	assert.Equal(t, []string{"a b c", "c d e", "e f g"}, windows)

	assert.Equal(t, 7, tok.Count("a b c d e f g"))
	assert.Equal(t, 0, tok.Count("   "))
}
