package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fwojciec/sitesnap"
	"github.com/fwojciec/sitesnap/archive"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Archiver *archive.Archiver
}

// ArchiveCmd handles the archive operation.
type ArchiveCmd struct {
	URL string
}

// Run executes the archive command.
func (c *ArchiveCmd) Run(deps *Dependencies) error {
	// Discovery (sitemap resolution and expansion) has no per-page progress,
	// so show a spinner until the page count is known.
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(deps.Stderr))
	spin.Suffix = " discovering pages"
	spin.Start()
	discovering := true

	progress := func(e archive.ProgressEvent) {
		switch e.Type {
		case archive.ProgressStarted:
			spin.Stop()
			discovering = false
			fmt.Fprintf(deps.Stdout, "Found %d pages\n", e.Total)
		case archive.ProgressCaptured:
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", e.Completed, e.Total, truncateURL(e.URL, 40))
		case archive.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "skip %s: %s\n", e.URL, sitesnap.ErrorMessage(e.Err))
			fmt.Fprintf(deps.Stdout, "\r[%d/%d] %s", e.Completed, e.Total, truncateURL(e.URL, 40))
		case archive.ProgressFinished:
			// Clear progress line
			fmt.Fprintf(deps.Stdout, "\r%80s\r", "")
		}
	}

	summary, err := deps.Archiver.Run(deps.Ctx, c.URL, progress)
	if discovering {
		spin.Stop()
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitesnap.ErrorMessage(err))
		return err
	}

	if summary.Succeeded > 0 {
		fmt.Fprintf(deps.Stdout, "Saved %d pages (%d failed)\n", summary.Succeeded, summary.Failed)
	} else {
		fmt.Fprintln(deps.Stdout, "No pages saved")
	}

	return nil
}

// truncateURL shortens a URL for display by showing only the path.
// This makes progress more useful when many URLs share the same host prefix.
func truncateURL(rawURL string, maxLen int) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		// Fallback to simple right-truncation
		if len(rawURL) <= maxLen {
			return rawURL
		}
		return rawURL[:maxLen-3] + "..."
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}

	if len(path) <= maxLen {
		return path
	}

	// Truncate from the left to show the unique suffix
	return "..." + path[len(path)-maxLen+3:]
}
