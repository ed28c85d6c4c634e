// Package fs provides file-based storage for captured page snapshots.
package fs

import (
	"net/url"
	"path"
	"strings"

	"github.com/fwojciec/sitesnap"
)

// Layout selects how snapshot URLs map to file paths.
type Layout string

const (
	// LayoutNested mirrors the URL structure in nested directories:
	// https://example.com/blog/ → example.com/blog/index.html.
	LayoutNested Layout = "nested"

	// LayoutFlat joins host and path segments with underscores into a single
	// directory: https://example.com/blog/ → example_com_blog_index.html.
	// Flat naming trades directory nesting for a collision risk on
	// pathologically similar URLs (e.g. /a/b vs /a_b).
	LayoutFlat Layout = "flat"
)

// Valid returns true if the layout is one of the known variants.
func (l Layout) Valid() bool {
	return l == LayoutNested || l == LayoutFlat
}

// SnapshotPath converts a page URL to a relative file path under the chosen
// layout. It is pure and deterministic: equal inputs always produce equal
// outputs.
func SnapshotPath(rawURL string, layout Layout) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", sitesnap.Errorf(sitesnap.EINVALID, "invalid page URL %q", rawURL)
	}
	if u.Host == "" {
		return "", sitesnap.Errorf(sitesnap.EINVALID, "page URL %q has no host", rawURL)
	}

	p := u.Path
	switch {
	case p == "" || strings.HasSuffix(p, "/"):
		p += "index.html"
	case path.Ext(p) == "":
		p += ".html"
	}
	p = strings.TrimPrefix(p, "/")

	switch layout {
	case LayoutFlat:
		host := strings.ReplaceAll(u.Host, ".", "_")
		return host + "_" + strings.ReplaceAll(p, "/", "_"), nil
	default:
		return path.Join(u.Host, p), nil
	}
}
