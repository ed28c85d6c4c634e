package sitesnap

import "context"

// Capture holds the outcome of successfully capturing a single page.
type Capture struct {
	// HTML is the serialized document after resource inlining.
	HTML string

	// Inlined reports what the in-page inlining procedure accomplished.
	Inlined InlineStats
}

// InlineStats reports per-page resource inlining results.
// One resource's failure never aborts inlining of the others, so a page can
// have both successful rewrites and failed resource URLs.
type InlineStats struct {
	// Stylesheets is the number of <link rel="stylesheet"> elements replaced
	// by inline <style> elements.
	Stylesheets int

	// Images is the number of <img> src attributes rewritten to data URIs.
	Images int

	// Failed lists the resource URLs that could not be fetched. The original
	// elements are left untouched for these.
	Failed []string
}

// Capturer renders pages in a browser and produces self-contained HTML.
type Capturer interface {
	// Capture opens a new page, navigates to url waiting for network activity
	// to settle (bounded by a timeout), runs the resource inlining procedure
	// to completion, and returns the serialized document. The page is always
	// closed, on success and on failure.
	Capture(ctx context.Context, url string) (*Capture, error)

	// Close releases browser resources.
	// Must be called when the Capturer is no longer needed.
	Close() error
}
