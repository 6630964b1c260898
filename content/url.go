package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// fetchTimeout bounds the whole URL fetch including body read.
	fetchTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

var (
	whitespaceRE  = regexp.MustCompile(`\s+`)
	specialCharRE = regexp.MustCompile(`[^\w\s.,!?-]`)
)

// URLNormalizer fetches a web page and strips it down to readable text and
// table contents. Script, style and page-chrome elements are discarded; the
// main content area is preferred when the page marks one.
type URLNormalizer struct {
	client *http.Client
	logger *slog.Logger
}

var _ Normalizer = (*URLNormalizer)(nil)

// URLOption configures a URLNormalizer.
type URLOption func(*URLNormalizer)

// WithHTTPClient sets a custom HTTP client. Tests use this together with
// httptest servers.
func WithHTTPClient(client *http.Client) URLOption {
	return func(n *URLNormalizer) {
		if client != nil {
			n.client = client
		}
	}
}

// NewURLNormalizer creates a normalizer for web page input.
func NewURLNormalizer(opts ...URLOption) *URLNormalizer {
	n := &URLNormalizer{
		client: &http.Client{Timeout: fetchTimeout},
		logger: slog.Default().With("component", "url-normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Extract fetches the URL and returns the page's readable text plus the
// text content of any tables.
func (n *URLNormalizer) Extract(ctx context.Context, rawURL string) (*Extracted, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url %q: %w", ErrExtraction, rawURL, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Error("failed to fetch url", "url", rawURL, "err", err)
		return nil, fmt.Errorf("%w: fetch %q: %w", ErrExtraction, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: fetch %q: status %d", ErrExtraction, rawURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %w", ErrExtraction, rawURL, err)
	}

	text := extractReadableText(doc)
	if text == "" {
		return nil, fmt.Errorf("%w: %w: %q", ErrExtraction, ErrNoContent, rawURL)
	}

	return &Extracted{
		Text:   text,
		Tables: extractTables(doc),
	}, nil
}

// skippedElements are discarded wholesale during traversal.
var skippedElements = map[string]bool{
	"script": true,
	"style":  true,
	"header": true,
	"footer": true,
	"nav":    true,
}

// contentElements are the elements whose text makes up the readable body.
var contentElements = map[string]bool{
	"p":  true,
	"h1": true,
	"h2": true,
	"h3": true,
	"h4": true,
	"h5": true,
	"h6": true,
}

// extractReadableText collects paragraph and heading text from the page's
// main content area (main, article, or body as fallback). If no content
// elements are present at all, it falls back to the whole area's text.
func extractReadableText(doc *html.Node) string {
	root := findFirstElement(doc, "main")
	if root == nil {
		root = findFirstElement(doc, "article")
	}
	if root == nil {
		root = findFirstElement(doc, "body")
	}
	if root == nil {
		root = doc
	}

	var parts []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if skippedElements[node.Data] {
				return
			}
			if contentElements[node.Data] {
				if text := nodeText(node); text != "" {
					parts = append(parts, text)
				}
				return
			}
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	text := strings.Join(parts, " ")
	if text == "" {
		// Fallback if no content elements were found
		text = nodeText(root)
	}

	text = specialCharRE.ReplaceAllString(text, "")
	text = whitespaceRE.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// extractTables returns the collapsed text of every table on the page.
func extractTables(doc *html.Node) []string {
	var tables []string
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == "table" {
			if text := nodeText(node); text != "" {
				tables = append(tables, text)
			}
			return
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return tables
}

// findFirstElement returns the first element with the given tag, depth-first.
func findFirstElement(node *html.Node, tag string) *html.Node {
	if node.Type == html.ElementNode && node.Data == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirstElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeText collects the whitespace-collapsed text beneath a node, skipping
// discarded elements.
func nodeText(node *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(sb.String(), " "))
}
