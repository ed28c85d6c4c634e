package archive_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/fwojciec/sitesnap"
	"github.com/fwojciec/sitesnap/archive"
	"github.com/fwojciec/sitesnap/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiver_Run_NoSitemapFound(t *testing.T) {
	t.Parallel()

	var captures int
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return nil, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				captures++
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
	}

	_, err := a.Run(context.Background(), "https://example.com", nil)

	require.Error(t, err)
	assert.Equal(t, sitesnap.ENOTFOUND, sitesnap.ErrorCode(err))
	assert.Zero(t, captures, "no pages should be captured without a sitemap")
}

func TestArchiver_Run_CapturesAllPagesInDiscoveryOrder(t *testing.T) {
	t.Parallel()

	sitemaps := map[string][]string{
		"https://example.com/sitemap-a.xml": {"https://example.com/", "https://example.com/about"},
		"https://example.com/sitemap-b.xml": {"https://example.com/blog/"},
	}

	var mu sync.Mutex
	var captured []string
	var saved []*sitesnap.Snapshot
	var committed bool

	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap-a.xml", "https://example.com/sitemap-b.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return sitemaps[sitemapURL], nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				mu.Lock()
				captured = append(captured, url)
				mu.Unlock()
				return &sitesnap.Capture{HTML: "<html>" + url + "</html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error {
				mu.Lock()
				saved = append(saved, snap)
				mu.Unlock()
				return nil
			},
			CommitFn: func() error {
				committed = true
				return nil
			},
		},
	}

	summary, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, &archive.Summary{Attempted: 3, Succeeded: 3, Failed: 0}, summary)
	// Concurrency defaults to 1, so captures happen in discovery order.
	assert.Equal(t, []string{
		"https://example.com/",
		"https://example.com/about",
		"https://example.com/blog/",
	}, captured)
	assert.True(t, committed)
	require.Len(t, saved, 3)
	for i, snap := range saved {
		assert.Equal(t, i, snap.Position)
		assert.NotEmpty(t, snap.ContentHash)
		assert.False(t, snap.CapturedAt.IsZero())
	}
}

func TestArchiver_Run_DeduplicatesAcrossSitemaps(t *testing.T) {
	t.Parallel()

	sitemaps := map[string][]string{
		"https://example.com/s1.xml": {"https://example.com/a", "https://example.com/b", "https://example.com/a"},
		"https://example.com/s2.xml": {"https://example.com/c", "https://example.com/b"},
	}

	var captured []string
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/s1.xml", "https://example.com/s2.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return sitemaps[sitemapURL], nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				captured = append(captured, url)
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
	}

	summary, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	assert.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}, captured)
}

func TestArchiver_Run_AppliesPageCap(t *testing.T) {
	t.Parallel()

	urls := make([]string, 10)
	for i := range urls {
		urls[i] = "https://example.com/page" + string(rune('0'+i))
	}

	var buf bytes.Buffer
	var captured []string
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return urls, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				captured = append(captured, url)
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
		Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
		MaxPages: 3,
	}

	summary, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Attempted)
	// Exactly the first 3 in discovery order.
	assert.Equal(t, urls[:3], captured)
	assert.Contains(t, buf.String(), "dropped=7")
}

func TestArchiver_Run_PageFailureDoesNotAbortRun(t *testing.T) {
	t.Parallel()

	var committed bool
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return []string{"https://example.com/good", "https://example.com/bad", "https://example.com/also-good"}, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				if url == "https://example.com/bad" {
					return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "navigation timed out")
				}
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
			CommitFn: func() error {
				committed = true
				return nil
			},
		},
	}

	summary, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, &archive.Summary{Attempted: 3, Succeeded: 2, Failed: 1}, summary)
	assert.True(t, committed, "partial success still commits the archive")
}

func TestArchiver_Run_AbortsWhenNothingSucceeds(t *testing.T) {
	t.Parallel()

	var aborted, committed bool
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return []string{"https://example.com/a"}, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "browser crashed")
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn:   func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
			CommitFn: func() error { committed = true; return nil },
			AbortFn:  func() error { aborted = true; return nil },
		},
	}

	summary, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, aborted)
	assert.False(t, committed)
}

func TestArchiver_Run_RecordsManifest(t *testing.T) {
	t.Parallel()

	var runCreated, runFinished bool
	var records []*sitesnap.SnapshotRecord

	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return []string{"https://example.com/good", "https://example.com/bad"}, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				if url == "https://example.com/bad" {
					return nil, sitesnap.Errorf(sitesnap.ESCRIPT, "inlining failed")
				}
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
		Manifest: &mock.ManifestService{
			CreateRunFn: func(ctx context.Context, run *sitesnap.Run) error {
				run.ID = "run-1"
				runCreated = true
				return nil
			},
			FinishRunFn: func(ctx context.Context, run *sitesnap.Run) error {
				runFinished = true
				assert.Equal(t, 2, run.Attempted)
				assert.Equal(t, 1, run.Succeeded)
				assert.Equal(t, 1, run.Failed)
				return nil
			},
			CreateSnapshotRecordFn: func(ctx context.Context, rec *sitesnap.SnapshotRecord) error {
				records = append(records, rec)
				return nil
			},
		},
	}

	_, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.True(t, runCreated)
	assert.True(t, runFinished)
	require.Len(t, records, 2)
	byURL := map[string]*sitesnap.SnapshotRecord{}
	for _, rec := range records {
		assert.Equal(t, "run-1", rec.RunID)
		byURL[rec.URL] = rec
	}
	assert.Equal(t, sitesnap.StatusCaptured, byURL["https://example.com/good"].Status)
	assert.NotEmpty(t, byURL["https://example.com/good"].ContentHash)
	assert.Equal(t, sitesnap.StatusFailed, byURL["https://example.com/bad"].Status)
	assert.Equal(t, "inlining failed", byURL["https://example.com/bad"].Error)
}

func TestArchiver_Run_WaitsOnDomainLimiter(t *testing.T) {
	t.Parallel()

	var domains []string
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return []string{"https://example.com/a", "https://other.example.org/b"}, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
		Limiter: &mock.DomainLimiter{
			WaitFn: func(ctx context.Context, domain string) error {
				domains = append(domains, domain)
				return nil
			},
		},
	}

	_, err := a.Run(context.Background(), "https://example.com", nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"example.com", "other.example.org"}, domains)
}

func TestArchiver_Run_ReportsProgress(t *testing.T) {
	t.Parallel()

	var events []archive.ProgressEvent
	a := &archive.Archiver{
		Resolver: &mock.SitemapResolver{
			ResolveFn: func(ctx context.Context, siteURL string) ([]string, error) {
				return []string{"https://example.com/sitemap.xml"}, nil
			},
		},
		Parser: &mock.SitemapParser{
			ParseFn: func(ctx context.Context, sitemapURL string) ([]string, error) {
				return []string{"https://example.com/a", "https://example.com/b"}, nil
			},
		},
		Capturer: &mock.Capturer{
			CaptureFn: func(ctx context.Context, url string) (*sitesnap.Capture, error) {
				return &sitesnap.Capture{HTML: "<html></html>"}, nil
			},
		},
		Store: &mock.SnapshotStore{
			SaveFn: func(ctx context.Context, snap *sitesnap.Snapshot) error { return nil },
		},
	}

	_, err := a.Run(context.Background(), "https://example.com", func(e archive.ProgressEvent) {
		events = append(events, e)
	})

	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, archive.ProgressStarted, events[0].Type)
	assert.Equal(t, 2, events[0].Total)
	assert.Equal(t, archive.ProgressCaptured, events[1].Type)
	assert.Equal(t, archive.ProgressCaptured, events[2].Type)
	assert.Equal(t, archive.ProgressFinished, events[3].Type)
}
