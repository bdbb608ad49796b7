package services

import (
	"context"
	"fmt"
	"strings"

	"classhawk-scraper/config"
	"classhawk-scraper/models"
	"classhawk-scraper/scraper"
	"classhawk-scraper/utils"

	"go.uber.org/zap"
)

// RunAll is the target value meaning "every configured adapter".
const RunAll = "all"

// onlineMarkers flags non-physical sessions; matched case-insensitively
// against class name and location after all adapters have run.
var onlineMarkers = []string{"livestream", "live stream", "online", "on demand", "virtual"}

// Engine drives the configured adapters one after another over a single
// shared browser, isolating each adapter's failures, and assembles one
// combined raw list. Adapters run sequentially on purpose: they share one
// browser instance to bound memory, not because ordering is a correctness
// requirement.
type Engine struct {
	cfg     *config.Config
	logger  *zap.SugaredLogger
	entries []scraper.Entry

	// overridable so tests don't launch Chrome
	newBrowser func(ctx context.Context) (*scraper.Browser, error)
}

// NewEngine creates an Engine over the given adapter registry
func NewEngine(cfg *config.Config, logger *zap.SugaredLogger, entries []scraper.Entry) *Engine {
	return &Engine{
		cfg:        cfg,
		logger:     logger,
		entries:    entries,
		newBrowser: scraper.NewBrowser,
	}
}

// Run executes the selected adapters and returns the combined, filtered raw
// list. target selects a single adapter by name; empty or "all" runs the full
// registry. The only fatal error is failing to acquire the shared browser —
// individual adapter failures degrade to empty results.
func (e *Engine) Run(ctx context.Context, target string) ([]*models.RawClass, error) {
	selected := e.selectEntries(target)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no adapter named %q is configured", target)
	}

	e.logger.Infof("Starting engine: %s (%d adapters)", displayTarget(target), len(selected))

	browser, err := e.newBrowser(ctx)
	if err != nil {
		return nil, fmt.Errorf("shared browser unavailable: %w", err)
	}
	defer browser.Close()

	var master []*models.RawClass
	for _, entry := range selected {
		records := e.runAdapterSafe(ctx, browser, entry)
		master = append(master, records...)
	}

	e.logger.Infof("Engine complete. Total classes: %d", len(master))

	filtered := FilterOnline(master)
	if removed := len(master) - len(filtered); removed > 0 {
		e.logger.Infof("Filtered out %d online/livestream classes. Remaining: %d", removed, len(filtered))
	}
	return filtered, nil
}

func (e *Engine) selectEntries(target string) []scraper.Entry {
	if target == "" || strings.EqualFold(target, RunAll) {
		return e.entries
	}
	for _, entry := range e.entries {
		if strings.EqualFold(entry.Name, target) {
			return []scraper.Entry{entry}
		}
	}
	return nil
}

// runAdapterSafe runs one adapter under the retry contract: up to
// RetryAttempts tries, fixed backoff between failures, zero records accepted
// as a valid empty day. A panicking adapter counts as a failed attempt. After
// exhausting retries the adapter contributes nothing; it never aborts the
// batch.
func (e *Engine) runAdapterSafe(ctx context.Context, browser *scraper.Browser, entry scraper.Entry) []*models.RawClass {
	var records []*models.RawClass

	err := utils.RetryFixed(ctx, e.cfg.RetryAttempts, e.cfg.RetryBackoff, func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("adapter panicked: %v", r)
			}
		}()

		attemptCtx, cancel := context.WithTimeout(ctx, e.cfg.AdapterTimeout)
		defer cancel()

		records, err = entry.Adapter.Scrape(attemptCtx, browser, entry.Config)
		return err
	}, e.logger)

	if err != nil {
		e.logger.Errorf("%s: giving up after %d attempts: %v", entry.Name, e.cfg.RetryAttempts, err)
		return nil
	}

	if len(records) == 0 {
		e.logger.Warnf("%s: returned 0 classes", entry.Name)
	} else {
		e.logger.Infof("%s: success, found %d classes", entry.Name, len(records))
	}
	return records
}

// FilterOnline removes records whose class name or location carries a known
// non-physical marker.
func FilterOnline(records []*models.RawClass) []*models.RawClass {
	var out []*models.RawClass
	for _, r := range records {
		if isOnline(r.ClassName) || isOnline(r.Location) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func isOnline(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range onlineMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func displayTarget(target string) string {
	if target == "" || strings.EqualFold(target, RunAll) {
		return "ALL"
	}
	return target
}
