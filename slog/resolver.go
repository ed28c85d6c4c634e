// Package slog provides logging decorators for sitesnap services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesnap"
)

// Ensure LoggingResolver implements sitesnap.SitemapResolver.
var _ sitesnap.SitemapResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a SitemapResolver with logging.
type LoggingResolver struct {
	next   sitesnap.SitemapResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next sitesnap.SitemapResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the operation.
func (r *LoggingResolver) Resolve(ctx context.Context, siteURL string) (refs []string, err error) {
	defer func(begin time.Time) {
		r.logger.Info("sitemap resolution",
			"site", siteURL,
			"count", len(refs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, siteURL)
}
