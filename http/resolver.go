// Package http provides HTTP-based sitemap discovery and parsing.
package http

import (
	"bufio"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/sitesnap"
)

// DefaultFetchTimeout bounds each robots.txt and sitemap request.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Resolver implements sitesnap.SitemapResolver at compile time.
var _ sitesnap.SitemapResolver = (*Resolver)(nil)

// Resolver discovers sitemap URLs from robots.txt directives, falling back
// to probing the conventional /sitemap.xml location.
type Resolver struct {
	client  *http.Client
	timeout time.Duration
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolverTimeout sets the per-request timeout.
// Defaults to DefaultFetchTimeout if not specified.
func WithResolverTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		r.timeout = d
	}
}

// NewResolver creates a new Resolver with the given HTTP client.
// If client is nil, http.DefaultClient is used.
func NewResolver(client *http.Client, opts ...ResolverOption) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	r := &Resolver{client: client, timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the sitemap URLs discoverable for siteURL.
// Returns an empty slice (not nil) if no sitemaps are found; transport
// failures only reduce the yield.
func (r *Resolver) Resolve(ctx context.Context, siteURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(siteURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, sitesnap.Errorf(sitesnap.EINVALID, "invalid site URL %q", siteURL)
	}

	// Sitemap discovery always starts from the origin, regardless of any
	// path component in siteURL.
	origin := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := r.parseSitemapsFromRobots(ctx, origin.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err != nil {
		return nil, err
	}
	if len(sitemaps) > 0 {
		return sitemaps, nil
	}

	fallback := origin.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	exists, err := r.urlExists(ctx, fallback)
	if err != nil {
		return nil, err
	}
	if exists {
		return []string{fallback}, nil
	}

	return []string{}, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt in
// document order. Unreachable robots.txt yields no directives, not an error.
func (r *Resolver) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINTERNAL, "creating request: %v", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		// Propagate caller cancellation; treat anything else as "no directives".
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var sitemaps []string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Case-insensitive check for Sitemap: directive
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil
	}

	return sitemaps, nil
}

// urlExists checks if a URL returns 200 OK.
func (r *Resolver) urlExists(ctx context.Context, targetURL string) (bool, error) {
	rctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, sitesnap.Errorf(sitesnap.EINTERNAL, "creating request: %v", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return false, nil
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
