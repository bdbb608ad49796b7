package scraper

import (
	"context"
	"fmt"

	"classhawk-scraper/models"

	"github.com/chromedp/chromedp"
)

// Location is one venue an adapter should cover. ID is whatever the target
// platform keys venues by (club id, company id); zero when unused.
type Location struct {
	ID   int
	Name string
	Slug string
}

// Config is the per-adapter configuration. The harness never interprets it;
// each adapter reads the fields it cares about and ignores the rest.
type Config struct {
	BaseURL   string
	Slug      string // gym slug the adapter stamps on its records
	Locations []Location
	Days      int // how many days of schedule to pull, where the site paginates by day
}

// Adapter is one studio/platform extractor. Implementations are deliberately
// site-specific and disposable; the only contract is "return raw records or
// an error, and be safe to call again". Browser is the shared automation
// resource and may be ignored by pure-HTTP adapters.
type Adapter interface {
	Name() string
	Scrape(ctx context.Context, browser *Browser, cfg Config) ([]*models.RawClass, error)
}

// Entry pairs a configured adapter with its config, in execution order.
type Entry struct {
	Name    string
	Adapter Adapter
	Config  Config
}

// Browser wraps one headless Chrome instance reused across adapters so a full
// run holds a single browser's worth of memory.
type Browser struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBrowser launches the shared headless browser. The caller owns it for the
// run and must Close it regardless of how the run ends.
func NewBrowser(parent context.Context) (*Browser, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("log-level", "3"),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Start the browser process now so launch failure is surfaced here, not
	// mid-adapter.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("browser launch failed: %w", err)
	}

	return &Browser{
		ctx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
	}, nil
}

// NewTab opens a fresh tab scoped to the given deadline context.
func (b *Browser) NewTab(ctx context.Context) (context.Context, context.CancelFunc) {
	tabCtx, cancelTab := chromedp.NewContext(b.ctx)
	deadlineCtx, cancelDeadline := context.WithCancel(tabCtx)
	go func() {
		select {
		case <-ctx.Done():
			cancelDeadline()
		case <-deadlineCtx.Done():
		}
	}()
	return deadlineCtx, func() {
		cancelDeadline()
		cancelTab()
	}
}

// Close shuts the browser down. Safe on a zero-value Browser.
func (b *Browser) Close() {
	if b != nil && b.cancel != nil {
		b.cancel()
	}
}
