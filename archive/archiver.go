// Package archive orchestrates site archiving: sitemap discovery, page
// capture with resource inlining, and snapshot storage.
package archive

import (
	"context"
	"encoding/hex"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/sitesnap"
	"golang.org/x/sync/errgroup"
)

// Archiver coordinates one archiving run. The browser session behind
// Capturer is exclusively owned by the Archiver for the run's duration.
type Archiver struct {
	Resolver sitesnap.SitemapResolver
	Parser   sitesnap.SitemapParser
	Capturer sitesnap.Capturer
	Store    sitesnap.SnapshotStore

	// Optional collaborators.
	Auditor  sitesnap.Auditor
	Manifest sitesnap.ManifestService
	Limiter  sitesnap.DomainLimiter
	Logger   *slog.Logger

	// Concurrency is the number of pages captured in parallel. The default
	// of 1 processes pages strictly sequentially, so snapshots are written
	// in discovery order; higher values trade that guarantee for speed.
	Concurrency int

	// MaxPages caps how many discovered pages are captured. Zero means no cap.
	MaxPages int
}

// Summary holds the outcome of an archiving run.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
}

// pageResult holds the outcome of processing a single page URL.
type pageResult struct {
	position int
	url      string
	filePath string
	hash     string
	err      error
}

// pathMapper is implemented by stores that can report the relative path a
// snapshot URL maps to. Used for manifest records only.
type pathMapper interface {
	Path(url string) (string, error)
}

// Run archives every page discoverable from siteURL's sitemaps.
//
// Per-page failures are counted, logged, and never abort the run. The run
// fails outright only when no sitemap is discoverable (ENOTFOUND) or the
// context is canceled.
func (a *Archiver) Run(ctx context.Context, siteURL string, progress ProgressFunc) (*Summary, error) {
	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	refs, err := a.Resolver.Resolve(ctx, siteURL)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, sitesnap.Errorf(sitesnap.ENOTFOUND, "no sitemap found for %s", siteURL)
	}
	logger.Info("sitemaps discovered", "site", siteURL, "count", len(refs))

	var all []string
	for _, ref := range refs {
		urls, err := a.Parser.Parse(ctx, ref)
		if err != nil {
			return nil, err
		}
		logger.Info("sitemap parsed", "sitemap", ref, "pages", len(urls))
		all = append(all, urls...)
	}

	pages := Dedupe(all)
	logger.Info("pages discovered", "unique", len(pages), "total", len(all))

	if a.MaxPages > 0 && len(pages) > a.MaxPages {
		logger.Info("page cap applied",
			"cap", a.MaxPages,
			"dropped", len(pages)-a.MaxPages,
		)
		pages = pages[:a.MaxPages]
	}

	run := &sitesnap.Run{SiteURL: siteURL, StartedAt: time.Now().UTC()}
	if a.Manifest != nil {
		if err := a.Manifest.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: len(pages)})
	}

	concurrency := a.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	resultCh := make(chan pageResult, len(pages))
	var completed atomic.Int64
	total := len(pages)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range pages {
			g.Go(func() error {
				resultCh <- a.processPage(gctx, run.ID, i, pageURL, logger)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	summary := &Summary{Attempted: total}
	for result := range resultCh {
		done := int(completed.Add(1))
		if result.err != nil {
			summary.Failed++
			logger.Warn("page failed",
				"url", result.url,
				"err", sitesnap.ErrorMessage(result.err),
			)
			if progress != nil {
				progress(ProgressEvent{
					Type:      ProgressFailed,
					URL:       result.url,
					Completed: done,
					Total:     total,
					Err:       result.err,
				})
			}
			continue
		}
		summary.Succeeded++
		if progress != nil {
			progress(ProgressEvent{
				Type:      ProgressCaptured,
				URL:       result.url,
				Completed: done,
				Total:     total,
			})
		}
	}

	if summary.Succeeded > 0 {
		if err := a.Store.Commit(); err != nil {
			return summary, err
		}
	} else {
		_ = a.Store.Abort()
	}

	if a.Manifest != nil {
		run.FinishedAt = time.Now().UTC()
		run.Attempted = summary.Attempted
		run.Succeeded = summary.Succeeded
		run.Failed = summary.Failed
		if err := a.Manifest.FinishRun(ctx, run); err != nil {
			return summary, err
		}
	}

	logger.Info("run finished",
		"site", siteURL,
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: total, Total: total})
	}

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// processPage captures one page and saves its snapshot. Every outcome is
// recorded in the manifest when one is configured.
func (a *Archiver) processPage(ctx context.Context, runID string, position int, pageURL string, logger *slog.Logger) pageResult {
	result := pageResult{position: position, url: pageURL}

	result.err = a.capturePage(ctx, position, pageURL, &result, logger)

	if a.Manifest != nil {
		rec := &sitesnap.SnapshotRecord{
			RunID:       runID,
			URL:         pageURL,
			FilePath:    result.filePath,
			ContentHash: result.hash,
			Status:      sitesnap.StatusCaptured,
			Position:    position,
			CapturedAt:  time.Now().UTC(),
		}
		if result.err != nil {
			rec.Status = sitesnap.StatusFailed
			rec.Error = sitesnap.ErrorMessage(result.err)
			rec.FilePath = ""
			rec.ContentHash = ""
		}
		if err := a.Manifest.CreateSnapshotRecord(ctx, rec); err != nil {
			logger.Warn("manifest record failed", "url", pageURL, "err", err)
		}
	}

	return result
}

// capturePage runs the capture pipeline for one URL: rate limit, browser
// capture, optional audit, snapshot save.
func (a *Archiver) capturePage(ctx context.Context, position int, pageURL string, result *pageResult, logger *slog.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Limiter != nil {
		if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
			if err := a.Limiter.Wait(ctx, u.Host); err != nil {
				return err
			}
		}
	}

	capture, err := a.Capturer.Capture(ctx, pageURL)
	if err != nil {
		return err
	}

	if a.Auditor != nil {
		if audit, err := a.Auditor.Audit(capture.HTML); err == nil {
			logger.Debug("inline audit",
				"url", pageURL,
				"self_contained", audit.SelfContained(),
				"external_stylesheets", audit.ExternalStylesheets,
				"external_images", audit.ExternalImages,
				"inline_images", audit.InlineImages,
			)
		}
	}

	snap := &sitesnap.Snapshot{
		URL:         pageURL,
		HTML:        capture.HTML,
		ContentHash: hashContent(capture.HTML),
		Position:    position,
		CapturedAt:  time.Now().UTC(),
	}
	if err := a.Store.Save(ctx, snap); err != nil {
		return err
	}

	result.hash = snap.ContentHash
	if mapper, ok := a.Store.(pathMapper); ok {
		if p, err := mapper.Path(pageURL); err == nil {
			result.filePath = p
		}
	}

	return nil
}

// hashContent computes the xxHash of content and returns it hex-encoded.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	var b [8]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b[:])
}
