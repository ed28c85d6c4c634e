package mock

import "github.com/fwojciec/sitesnap"

var _ sitesnap.Auditor = (*Auditor)(nil)

// Auditor is a mock implementation of sitesnap.Auditor.
type Auditor struct {
	AuditFn func(html string) (*sitesnap.InlineAudit, error)
}

func (a *Auditor) Audit(html string) (*sitesnap.InlineAudit, error) {
	return a.AuditFn(html)
}
