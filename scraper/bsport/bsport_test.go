package bsport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"classhawk-scraper/scraper"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScrapeKeepsDateAndTimeOnSourceClock(t *testing.T) {
	// Late-evening session in an offset that won't match the test host's
	// timezone. Date and time must still describe the same instant.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"id": 991,
				"activity_name": "Lagree Fit",
				"coach_name": "Sam",
				"start_datetime": "2026-03-10T23:45:00+10:00",
				"fully_booked": false,
				"waiting_list_count": 0,
				"establishment_zipcode": "EC3N 1AB"
			}],
			"next": ""
		}`))
	}))
	defer srv.Close()

	a := New(zap.NewNop().Sugar(), 1)
	classes, err := a.Scrape(context.Background(), nil, scraper.Config{
		BaseURL: srv.URL,
		Slug:    "bsport",
		Days:    1,
		Locations: []scraper.Location{
			{ID: 1417, Name: "BST Lagree City", Slug: "bst-lagree"},
		},
	})

	require.NoError(t, err)
	require.Len(t, classes, 1)
	c := classes[0]
	require.Equal(t, "2026-03-10", c.RawDate)
	require.Equal(t, "11:45 PM", c.StartTime)
	require.Equal(t, "Lagree Fit", c.ClassName)
	require.Equal(t, "Sam", c.Instructor)
	require.Equal(t, "BST Lagree City, Aldgate", c.Location)
	require.Equal(t, "Open", c.Status)
	require.Equal(t, "bsport-1417-991", c.SourceID)
}

func TestAreaFromPostcode(t *testing.T) {
	table := []struct {
		postcode string
		expected string
	}{
		{postcode: "EC3N 1AB", expected: "Aldgate"},
		{postcode: "sw11 4ae", expected: "Battersea"},
		{postcode: "SW1P 2HP", expected: "Westminster"},
		{postcode: "ZZ99 9ZZ", expected: "London"}, // unknown district falls back
		{postcode: "", expected: "London"},
	}

	for _, row := range table {
		require.Equal(t, row.expected, areaFromPostcode(row.postcode), "postcode %q", row.postcode)
	}
}
