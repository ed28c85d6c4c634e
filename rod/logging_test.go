package rod_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/sitesnap"
	"github.com/fwojciec/sitesnap/mock"
	"github.com/fwojciec/sitesnap/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingCapturer_Capture(t *testing.T) {
	t.Parallel()

	t.Run("logs capture with inlining stats", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				return &sitesnap.Capture{
					HTML: "<html></html>",
					Inlined: sitesnap.InlineStats{
						Stylesheets: 2,
						Images:      3,
						Failed:      []string{"https://cdn.example.com/missing.css"},
					},
				}, nil
			},
		}

		c := rod.NewLoggingCapturer(inner, logger)
		capture, err := c.Capture(context.Background(), "https://example.com/")

		require.NoError(t, err)
		require.NotNil(t, capture)
		output := buf.String()
		assert.Contains(t, output, "page capture")
		assert.Contains(t, output, "url=https://example.com/")
		assert.Contains(t, output, "stylesheets=2")
		assert.Contains(t, output, "images=3")
		assert.Contains(t, output, "failed_resources=1")
		assert.Contains(t, output, "resource not inlined")
		assert.Contains(t, output, "https://cdn.example.com/missing.css")
	})

	t.Run("logs error on failed capture", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "navigation timed out")
			},
		}

		c := rod.NewLoggingCapturer(inner, logger)
		_, err := c.Capture(context.Background(), "https://example.com/slow")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "navigation timed out")
	})
}
