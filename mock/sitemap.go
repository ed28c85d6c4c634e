package mock

import (
	"context"

	"github.com/fwojciec/sitesnap"
)

var _ sitesnap.SitemapResolver = (*SitemapResolver)(nil)

// SitemapResolver is a mock implementation of sitesnap.SitemapResolver.
type SitemapResolver struct {
	ResolveFn func(ctx context.Context, siteURL string) ([]string, error)
}

func (r *SitemapResolver) Resolve(ctx context.Context, siteURL string) ([]string, error) {
	return r.ResolveFn(ctx, siteURL)
}

var _ sitesnap.SitemapParser = (*SitemapParser)(nil)

// SitemapParser is a mock implementation of sitesnap.SitemapParser.
type SitemapParser struct {
	ParseFn func(ctx context.Context, sitemapURL string) ([]string, error)
}

func (p *SitemapParser) Parse(ctx context.Context, sitemapURL string) ([]string, error) {
	return p.ParseFn(ctx, sitemapURL)
}
