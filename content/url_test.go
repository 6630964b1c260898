package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Sample</title><style>body { color: red; }</style></head>
<body>
<header>Site chrome</header>
<nav>Home | About</nav>
<main>
  <h1>Quantum Networking</h1>
  <p>Entanglement distribution over fiber is now practical.</p>
  <script>console.log("ignored");</script>
  <p>Repeater nodes extend the range beyond 100 km.</p>
  <table><tr><td>Node</td><td>Range</td></tr><tr><td>A</td><td>50km</td></tr></table>
</main>
<footer>Copyright</footer>
</body>
</html>`

func TestURLNormalizer_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(samplePage))
	}))
	defer server.Close()

	normalizer := NewURLNormalizer(WithHTTPClient(server.Client()))
	extracted, err := normalizer.Extract(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, extracted.Text, "Quantum Networking")
	assert.Contains(t, extracted.Text, "Entanglement distribution over fiber")
	assert.Contains(t, extracted.Text, "Repeater nodes")

	// Chrome, scripts and styles are stripped
	assert.NotContains(t, extracted.Text, "Site chrome")
	assert.NotContains(t, extracted.Text, "console.log")
	assert.NotContains(t, extracted.Text, "color red")
	assert.NotContains(t, extracted.Text, "Copyright")

	// Tables are extracted separately
	require.Len(t, extracted.Tables, 1)
	assert.Contains(t, extracted.Tables[0], "Node")
	assert.Contains(t, extracted.Tables[0], "50km")
}

func TestURLNormalizer_Extract_Errors(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusNotFound)
		}))
		defer server.Close()

		normalizer := NewURLNormalizer(WithHTTPClient(server.Client()))
		_, err := normalizer.Extract(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("unreachable host", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		normalizer := NewURLNormalizer()
		_, err := normalizer.Extract(context.Background(), url)
		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("empty page", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body></body></html>"))
		}))
		defer server.Close()

		normalizer := NewURLNormalizer(WithHTTPClient(server.Client()))
		_, err := normalizer.Extract(context.Background(), server.URL)
		assert.ErrorIs(t, err, ErrNoContent)
	})
}

func TestTextNormalizer_Extract(t *testing.T) {
	normalizer := NewTextNormalizer()

	extracted, err := normalizer.Extract(context.Background(), "  Quantum computing will change cryptography.  ")
	require.NoError(t, err)
	assert.Equal(t, "Quantum computing will change cryptography.", extracted.Text)
	assert.Empty(t, extracted.Tables)
	assert.Empty(t, extracted.ImageTexts)

	extracted, err = normalizer.Extract(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, extracted.Text)
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	for _, inputType := range []InputType{InputTypeText, InputTypeURL, InputTypePDF} {
		normalizer, err := registry.Get(inputType)
		require.NoError(t, err)
		assert.NotNil(t, normalizer)
	}

	_, err := registry.Get(InputType("carrier-pigeon"))
	assert.ErrorIs(t, err, ErrUnsupportedInput)

	// Replacement
	custom := NewTextNormalizer()
	registry.Register(InputTypePDF, custom)
	got, err := registry.Get(InputTypePDF)
	require.NoError(t, err)
	assert.Same(t, custom, got)
}

func TestPDFNormalizer_Extract_InvalidInput(t *testing.T) {
	normalizer := NewPDFNormalizer()

	t.Run("not base64", func(t *testing.T) {
		_, err := normalizer.Extract(context.Background(), "not-base64!!!")
		assert.ErrorIs(t, err, ErrExtraction)
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := normalizer.Extract(context.Background(), "aGVsbG8gd29ybGQ=") // "hello world"
		assert.ErrorIs(t, err, ErrExtraction)
	})
}
