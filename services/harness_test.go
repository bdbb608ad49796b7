package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"classhawk-scraper/config"
	"classhawk-scraper/models"
	"classhawk-scraper/scraper"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeAdapter scripts per-attempt outcomes: an entry in failures fails that
// attempt, then records are returned.
type fakeAdapter struct {
	name     string
	failures int
	panics   bool
	records  []*models.RawClass
	calls    int
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Scrape(ctx context.Context, _ *scraper.Browser, _ scraper.Config) ([]*models.RawClass, error) {
	f.calls++
	if f.panics && f.calls <= f.failures {
		panic("adapter blew up")
	}
	if f.calls <= f.failures {
		return nil, errors.New("markup changed again")
	}
	return f.records, nil
}

func testEngine(entries ...scraper.Entry) *Engine {
	cfg := &config.Config{
		RetryAttempts:  3,
		RetryBackoff:   time.Millisecond,
		AdapterTimeout: time.Second,
	}
	e := NewEngine(cfg, zap.NewNop().Sugar(), entries)
	e.newBrowser = func(ctx context.Context) (*scraper.Browser, error) {
		return &scraper.Browser{}, nil
	}
	return e
}

func rawClass(gym, name string) *models.RawClass {
	return &models.RawClass{GymSlug: gym, ClassName: name, Date: "2025-06-02", Time: "09:00"}
}

func entry(a *fakeAdapter) scraper.Entry {
	return scraper.Entry{Name: a.name, Adapter: a}
}

func TestEngineRetriesThenSucceeds(t *testing.T) {
	a := &fakeAdapter{name: "flaky", failures: 2, records: []*models.RawClass{rawClass("acme", "Yoga")}}
	e := testEngine(entry(a))

	records, err := e.Run(context.Background(), RunAll)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 3, a.calls)
}

func TestEngineAcceptsEmptyWithoutRetry(t *testing.T) {
	a := &fakeAdapter{name: "quiet"} // zero failures, zero records
	e := testEngine(entry(a))

	records, err := e.Run(context.Background(), RunAll)
	require.NoError(t, err)
	require.Empty(t, records)
	require.Equal(t, 1, a.calls, "a valid empty result must not be retried")
}

func TestEngineIsolatesExhaustedAdapter(t *testing.T) {
	broken := &fakeAdapter{name: "broken", failures: 10}
	healthy := &fakeAdapter{name: "healthy", records: []*models.RawClass{rawClass("acme", "Spin")}}
	e := testEngine(entry(broken), entry(healthy))

	records, err := e.Run(context.Background(), RunAll)
	require.NoError(t, err, "one adapter's total failure must never abort the batch")
	require.Len(t, records, 1)
	require.Equal(t, "Spin", records[0].ClassName)
	require.Equal(t, 3, broken.calls)
}

func TestEngineRecoversPanickingAdapter(t *testing.T) {
	a := &fakeAdapter{name: "bomb", failures: 1, panics: true, records: []*models.RawClass{rawClass("acme", "HIIT")}}
	e := testEngine(entry(a))

	records, err := e.Run(context.Background(), RunAll)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2, a.calls, "a panic counts as one failed attempt")
}

func TestEngineRunsSingleNamedAdapter(t *testing.T) {
	first := &fakeAdapter{name: "first", records: []*models.RawClass{rawClass("a", "One")}}
	second := &fakeAdapter{name: "second", records: []*models.RawClass{rawClass("b", "Two")}}
	e := testEngine(entry(first), entry(second))

	records, err := e.Run(context.Background(), "Second")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Two", records[0].ClassName)
	require.Zero(t, first.calls)

	_, err = e.Run(context.Background(), "nonexistent")
	require.Error(t, err)
}

func TestEngineFiltersOnlineClasses(t *testing.T) {
	a := &fakeAdapter{name: "mixed", records: []*models.RawClass{
		rawClass("acme", "Yoga Flow"),
		rawClass("acme", "Yoga Flow LIVESTREAM"),
		rawClass("acme", "Pilates Online"),
		{GymSlug: "acme", ClassName: "Spin", Location: "Virtual Studio", Date: "2025-06-02", Time: "09:00"},
	}}
	e := testEngine(entry(a))

	records, err := e.Run(context.Background(), RunAll)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Yoga Flow", records[0].ClassName)
}

func TestEngineFatalWhenBrowserUnavailable(t *testing.T) {
	a := &fakeAdapter{name: "any"}
	e := testEngine(entry(a))
	e.newBrowser = func(ctx context.Context) (*scraper.Browser, error) {
		return nil, errors.New("chrome not found")
	}

	_, err := e.Run(context.Background(), RunAll)
	require.Error(t, err)
	require.Zero(t, a.calls)
}

func TestFilterOnlineCaseInsensitive(t *testing.T) {
	records := []*models.RawClass{
		{ClassName: "Live Stream Yoga"},
		{ClassName: "Strength", Location: "ONLINE"},
		{ClassName: "Strength", Location: "Studio 1"},
	}
	out := FilterOnline(records)
	require.Len(t, out, 1)
	require.Equal(t, "Studio 1", out[0].Location)
}
