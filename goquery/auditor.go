// Package goquery provides HTML inspection of captured snapshots.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/sitesnap"
)

// Ensure Auditor implements sitesnap.Auditor at compile time.
var _ sitesnap.Auditor = (*Auditor)(nil)

// Auditor reports how self-contained a captured document is by counting the
// external stylesheet and image references the inlining procedure left
// behind.
type Auditor struct{}

// NewAuditor creates a new Auditor.
func NewAuditor() *Auditor {
	return &Auditor{}
}

// Audit parses html and counts inline versus external resources.
func (a *Auditor) Audit(html string) (*sitesnap.InlineAudit, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EPARSE, "parsing snapshot HTML: %v", err)
	}

	audit := &sitesnap.InlineAudit{}

	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok && href != "" {
			audit.ExternalStylesheets++
		}
	})

	audit.InlineStyles = doc.Find("style").Length()

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			return
		}
		if strings.HasPrefix(src, "data:") {
			audit.InlineImages++
		} else {
			audit.ExternalImages++
		}
	})

	return audit, nil
}
