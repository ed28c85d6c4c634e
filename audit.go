package sitesnap

// InlineAudit reports how self-contained a captured document is.
type InlineAudit struct {
	// ExternalStylesheets is the number of <link rel="stylesheet"> elements
	// still referencing external resources.
	ExternalStylesheets int

	// ExternalImages is the number of <img> elements still referencing
	// non-data-URI sources.
	ExternalImages int

	// InlineStyles is the number of <style> elements present.
	InlineStyles int

	// InlineImages is the number of <img> elements with data-URI sources.
	InlineImages int
}

// SelfContained returns true if the document references no external
// stylesheets or images.
func (a *InlineAudit) SelfContained() bool {
	return a.ExternalStylesheets == 0 && a.ExternalImages == 0
}

// Auditor inspects captured HTML for remaining external references.
type Auditor interface {
	Audit(html string) (*InlineAudit, error)
}
