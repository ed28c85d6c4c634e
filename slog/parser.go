package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesnap"
)

// Ensure LoggingParser implements sitesnap.SitemapParser.
var _ sitesnap.SitemapParser = (*LoggingParser)(nil)

// LoggingParser wraps a SitemapParser with logging.
type LoggingParser struct {
	next   sitesnap.SitemapParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next sitesnap.SitemapParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the operation.
func (p *LoggingParser) Parse(ctx context.Context, sitemapURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		p.logger.Info("sitemap expansion",
			"sitemap", sitemapURL,
			"pages", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Parse(ctx, sitemapURL)
}
