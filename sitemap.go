package sitesnap

import "context"

// SitemapResolver discovers candidate sitemap URLs for a site.
type SitemapResolver interface {
	// Resolve derives the site's origin from siteURL and returns the sitemap
	// URLs advertised by its robots.txt, falling back to a probe of
	// /sitemap.xml when robots.txt yields none.
	//
	// Transport failures reduce the yield but are never returned as errors;
	// an empty (non-nil) slice means no sitemap is discoverable. The only
	// error conditions are an unparsable siteURL and context cancellation.
	Resolve(ctx context.Context, siteURL string) ([]string, error)
}

// SitemapParser expands a sitemap or sitemap-index document into page URLs.
type SitemapParser interface {
	// Parse fetches the document at sitemapURL and returns the page URLs it
	// yields, descending into nested sitemap indexes. Results preserve
	// document order; duplicates are not removed at this layer.
	//
	// Unreachable or malformed documents reduce the yield but are never
	// returned as errors. The only error condition is context cancellation.
	Parse(ctx context.Context, sitemapURL string) ([]string, error)
}
