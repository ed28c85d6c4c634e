package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/sitesnap"
)

// Ensure Parser implements sitesnap.SitemapParser at compile time.
var _ sitesnap.SitemapParser = (*Parser)(nil)

// Parser expands sitemap and sitemap-index documents into page URLs.
//
// Expansion uses an explicit worklist with a visited set, so self-referential
// or cyclic indexes terminate; for well-formed acyclic trees the output order
// matches a depth-first recursive descent in document order.
type Parser struct {
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithParserTimeout sets the per-document fetch timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithParserTimeout(d time.Duration) ParserOption {
	return func(p *Parser) {
		p.timeout = d
	}
}

// WithParserLogger sets the logger for per-document failures.
// Defaults to a discarding logger if not specified.
func WithParserLogger(logger *slog.Logger) ParserOption {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new Parser with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewParser(client *http.Client, opts ...ParserOption) *Parser {
	if client == nil {
		client = http.DefaultClient
	}
	p := &Parser{
		client:  client,
		timeout: DefaultFetchTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse returns the page URLs reachable from sitemapURL in document order.
// Unreachable or malformed documents are logged and skipped; duplicates are
// not removed at this layer.
func (p *Parser) Parse(ctx context.Context, sitemapURL string) ([]string, error) {
	urls := []string{}
	visited := map[string]bool{sitemapURL: true}
	stack := []string{sitemapURL}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		root, err := p.fetchDocument(ctx, current)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.logger.Warn("skipping sitemap",
				"url", current,
				"err", sitesnap.ErrorMessage(err),
			)
			continue
		}

		switch {
		case strings.EqualFold(root.Tag, "sitemapindex"):
			children := childSitemaps(root)
			// Push in reverse so the first child is processed next,
			// preserving document order.
			for i := len(children) - 1; i >= 0; i-- {
				child := children[i]
				if visited[child] {
					continue
				}
				visited[child] = true
				stack = append(stack, child)
			}
		case strings.EqualFold(root.Tag, "urlset"):
			urls = append(urls, pageURLs(root)...)
		default:
			p.logger.Warn("unknown sitemap format",
				"url", current,
				"root", root.Tag,
			)
		}
	}

	return urls, nil
}

// fetchDocument retrieves and parses one sitemap document, decompressing
// gzip-suffixed URLs before parsing.
func (p *Parser) fetchDocument(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	rctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINTERNAL, "creating request: %v", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.ETRANSPORT, "fetching sitemap: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, sitesnap.Errorf(sitesnap.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, sitemapURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.ETRANSPORT, "reading sitemap body: %v", err)
	}

	if strings.HasSuffix(strings.ToLower(sitemapURL), ".gz") {
		gz, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, sitesnap.Errorf(sitesnap.EPARSE, "decompressing sitemap: %v", err)
		}
		body, err = io.ReadAll(gz)
		if err != nil {
			return nil, sitesnap.Errorf(sitesnap.EPARSE, "decompressing sitemap: %v", err)
		}
		if err := gz.Close(); err != nil {
			return nil, sitesnap.Errorf(sitesnap.EPARSE, "decompressing sitemap: %v", err)
		}
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, sitesnap.Errorf(sitesnap.EPARSE, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, sitesnap.Errorf(sitesnap.EPARSE, "empty sitemap XML")
	}

	return root, nil
}

// childSitemaps extracts <sitemap><loc> values from a <sitemapindex> element
// in document order, skipping entries with missing or empty locations.
func childSitemaps(root *etree.Element) []string {
	var children []string
	for _, el := range root.ChildElements() {
		if !strings.EqualFold(el.Tag, "sitemap") {
			continue
		}
		if loc := locText(el); loc != "" {
			children = append(children, loc)
		}
	}
	return children
}

// pageURLs extracts <url><loc> values from a <urlset> element in document
// order, skipping entries with missing or empty locations.
func pageURLs(root *etree.Element) []string {
	var urls []string
	for _, el := range root.ChildElements() {
		if !strings.EqualFold(el.Tag, "url") {
			continue
		}
		if loc := locText(el); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls
}

// locText returns the trimmed text of an element's <loc> child.
// Matching is case-insensitive and ignores namespaces.
func locText(el *etree.Element) string {
	for _, child := range el.ChildElements() {
		if strings.EqualFold(child.Tag, "loc") {
			return strings.TrimSpace(child.Text())
		}
	}
	return ""
}
