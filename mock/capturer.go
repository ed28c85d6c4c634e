package mock

import (
	"context"

	"github.com/fwojciec/sitesnap"
)

var _ sitesnap.Capturer = (*Capturer)(nil)

// Capturer is a mock implementation of sitesnap.Capturer.
type Capturer struct {
	CaptureFn func(ctx context.Context, url string) (*sitesnap.Capture, error)
	CloseFn   func() error
}

func (c *Capturer) Capture(ctx context.Context, url string) (*sitesnap.Capture, error) {
	return c.CaptureFn(ctx, url)
}

func (c *Capturer) Close() error {
	if c.CloseFn == nil {
		return nil
	}
	return c.CloseFn()
}
