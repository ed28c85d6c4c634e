package rod

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/sitesnap"
	"github.com/go-rod/rod/lib/proto"
)

// Default timeouts for the capture pipeline.
const (
	// DefaultNavTimeout bounds navigation plus the network-idle wait. Pages
	// with persistent polling connections never go idle on their own, so the
	// wait must have an upper bound.
	DefaultNavTimeout = 30 * time.Second

	// DefaultScriptTimeout bounds the in-page inlining procedure.
	DefaultScriptTimeout = 60 * time.Second

	// settleDelay is how long the network must be quiet before navigation is
	// considered settled.
	settleDelay = 300 * time.Millisecond
)

// Ensure Capturer implements sitesnap.Capturer at compile time.
var _ sitesnap.Capturer = (*Capturer)(nil)

// Capturer renders pages in headless Chrome and produces self-contained HTML.
// Capturer is safe for concurrent use by multiple goroutines; each capture
// runs in its own page on the shared browser.
type Capturer struct {
	manager       *BrowserManager
	managerOpts   []ManagerOption
	navTimeout    time.Duration
	scriptTimeout time.Duration
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithNavTimeout sets the upper bound on navigation and the network-idle
// wait. Defaults to DefaultNavTimeout if not specified.
func WithNavTimeout(d time.Duration) Option {
	return func(c *Capturer) {
		c.navTimeout = d
	}
}

// WithScriptTimeout sets the upper bound on the in-page inlining procedure.
// Defaults to DefaultScriptTimeout if not specified.
func WithScriptTimeout(d time.Duration) Option {
	return func(c *Capturer) {
		c.scriptTimeout = d
	}
}

// WithManagerOptions forwards options to the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(c *Capturer) {
		c.managerOpts = opts
	}
}

// NewCapturer launches a headless Chrome browser for capturing pages.
// Close must be called when the Capturer is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewCapturer(opts ...Option) (*Capturer, error) {
	c := &Capturer{
		navTimeout:    DefaultNavTimeout,
		scriptTimeout: DefaultScriptTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	manager, err := NewBrowserManager(c.managerOpts...)
	if err != nil {
		return nil, err
	}
	c.manager = manager

	return c, nil
}

// Capture navigates to the URL, inlines external stylesheets and images, and
// returns the serialized document. The page is closed unconditionally.
func (c *Capturer) Capture(ctx context.Context, url string) (*sitesnap.Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := c.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "opening page for %s: %v", url, err)
	}
	defer page.Close()

	page = page.Context(ctx)

	// Navigation and the idle wait share one deadline. The wait function must
	// be created before navigating so no request is missed.
	nav := page.Timeout(c.navTimeout)
	settled := nav.WaitRequestIdle(settleDelay, nil, nil, nil)
	if err := nav.Navigate(url); err != nil {
		return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "navigating to %s: %v", url, err)
	}
	if err := nav.WaitLoad(); err != nil {
		return nil, sitesnap.Errorf(sitesnap.ENAVIGATION, "loading %s: %v", url, err)
	}
	settled()

	// The script is an awaited async function: evaluation returns only after
	// every resource fetch has resolved or failed, so the serialized content
	// below reflects the fully-inlined document.
	res, err := page.Timeout(c.scriptTimeout).Eval(inlineScript)
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.ESCRIPT, "inlining resources on %s: %v", url, err)
	}

	var result inlineResult
	raw, err := json.Marshal(res.Value)
	if err == nil {
		err = json.Unmarshal(raw, &result)
	}
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.ESCRIPT, "decoding inline result for %s: %v", url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, sitesnap.Errorf(sitesnap.EINTERNAL, "reading content of %s: %v", url, err)
	}

	c.manager.PageCaptured()

	return &sitesnap.Capture{
		HTML: html,
		Inlined: sitesnap.InlineStats{
			Stylesheets: result.Stylesheets,
			Images:      result.Images,
			Failed:      result.Failures,
		},
	}, nil
}

// Close releases browser resources.
func (c *Capturer) Close() error {
	return c.manager.Close()
}
