// Package sitesnap archives websites as self-contained HTML snapshots.
// It discovers page URLs from a site's sitemaps, renders each page in a
// headless browser, inlines externally-loaded stylesheets and images, and
// writes the result to a deterministic path on disk.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, rod/, fs/, sqlite/).
package sitesnap
