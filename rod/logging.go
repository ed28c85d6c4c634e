package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/sitesnap"
)

// Ensure LoggingCapturer implements sitesnap.Capturer.
var _ sitesnap.Capturer = (*LoggingCapturer)(nil)

// LoggingCapturer wraps a Capturer with per-page logging, including the
// inlining outcome and any resource URLs that could not be inlined.
type LoggingCapturer struct {
	next   sitesnap.Capturer
	logger *slog.Logger
}

// NewLoggingCapturer creates a new LoggingCapturer.
func NewLoggingCapturer(next sitesnap.Capturer, logger *slog.Logger) *LoggingCapturer {
	return &LoggingCapturer{next: next, logger: logger}
}

// Capture logs the URL being captured and delegates to the wrapped capturer.
func (c *LoggingCapturer) Capture(ctx context.Context, url string) (capture *sitesnap.Capture, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		}
		if capture != nil {
			attrs = append(attrs,
				"bytes", len(capture.HTML),
				"stylesheets", capture.Inlined.Stylesheets,
				"images", capture.Inlined.Images,
				"failed_resources", len(capture.Inlined.Failed),
			)
		}
		c.logger.Info("page capture", attrs...)
		if capture != nil {
			for _, resource := range capture.Inlined.Failed {
				c.logger.Warn("resource not inlined", "page", url, "resource", resource)
			}
		}
	}(time.Now())
	return c.next.Capture(ctx, url)
}

// Close delegates to the wrapped capturer.
func (c *LoggingCapturer) Close() error {
	return c.next.Close()
}
