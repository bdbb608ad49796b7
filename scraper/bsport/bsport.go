// Package bsport covers studios hosted on the BSport booking platform. One of
// the older adapters: it still emits the legacy record keys (gym, raw_date,
// start_time, instructor) and leans on the normalizer to reconcile them.
package bsport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"classhawk-scraper/models"
	"classhawk-scraper/scraper"
	"classhawk-scraper/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Rough central-London postcode district -> area name, used to turn a venue
// postcode into a human location label.
var postcodeAreas = map[string]string{
	"E1": "Shoreditch", "E2": "Bethnal Green", "E8": "Hackney", "E14": "Canary Wharf",
	"EC1": "Clerkenwell", "EC2": "City", "EC3": "Aldgate",
	"N1": "Islington", "N4": "Finsbury Park", "NW1": "Camden", "NW3": "Hampstead",
	"SE1": "Southwark", "SE10": "Greenwich", "SE15": "Peckham", "SE22": "East Dulwich",
	"SW1": "Westminster", "SW3": "Chelsea", "SW4": "Clapham", "SW6": "Fulham",
	"SW11": "Battersea", "SW18": "Wandsworth", "SW19": "Wimbledon",
	"W1": "West End", "W2": "Paddington", "W4": "Chiswick", "W6": "Hammersmith",
	"W11": "Notting Hill", "WC1": "Bloomsbury", "WC2": "Covent Garden",
}

type sessionPage struct {
	Results []struct {
		ID                    int    `json:"id"`
		ActivityName          string `json:"activity_name"`
		CoachName             string `json:"coach_name"`
		StartDatetime         string `json:"start_datetime"`
		FullyBooked           bool   `json:"fully_booked"`
		WaitingCount          int    `json:"waiting_list_count"`
		EstablishmentPostcode string `json:"establishment_zipcode"`
	} `json:"results"`
	Next string `json:"next"`
}

type Adapter struct {
	logger  *zap.SugaredLogger
	limiter *utils.RateLimiter
	http    *resty.Client
}

func New(logger *zap.SugaredLogger, rateDelayMs int) *Adapter {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("Accept", "application/json")

	return &Adapter{
		logger:  logger,
		limiter: utils.NewRateLimiter(rateDelayMs),
		http:    client,
	}
}

func (a *Adapter) Name() string { return "bsport" }

func (a *Adapter) Scrape(ctx context.Context, _ *scraper.Browser, cfg scraper.Config) ([]*models.RawClass, error) {
	var all []*models.RawClass

	for _, studio := range cfg.Locations {
		classes, err := a.scrapeCompany(ctx, cfg, studio)
		if err != nil {
			return nil, fmt.Errorf("company %d (%s): %w", studio.ID, studio.Name, err)
		}
		all = append(all, classes...)
	}

	a.logger.Infof("[BSport] Collected %d classes across %d studios", len(all), len(cfg.Locations))
	return all, nil
}

func (a *Adapter) scrapeCompany(ctx context.Context, cfg scraper.Config, studio scraper.Location) ([]*models.RawClass, error) {
	from := time.Now()
	to := from.AddDate(0, 0, cfg.Days)

	url := fmt.Sprintf("%s/session/?company=%d&min_date=%s&max_date=%s&page_size=100",
		cfg.BaseURL, studio.ID, from.Format("2006-01-02"), to.Format("2006-01-02"))

	var all []*models.RawClass
	for url != "" {
		if err := a.limiter.Wait(ctx); err != nil {
			return all, err
		}

		var page sessionPage
		resp, err := a.http.R().SetContext(ctx).SetResult(&page).Get(url)
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("session API returned %s", resp.Status())
		}

		for _, s := range page.Results {
			start, err := time.Parse(time.RFC3339, s.StartDatetime)
			if err != nil {
				continue
			}

			status := "Open"
			if s.FullyBooked {
				status = "Full"
				if s.WaitingCount > 0 {
					status = "Waitlist"
				}
			}

			all = append(all, &models.RawClass{
				Gym:        studio.Slug,
				ClassName:  s.ActivityName,
				Instructor: s.CoachName,
				Location:   fmt.Sprintf("%s, %s", studio.Name, areaFromPostcode(s.EstablishmentPostcode)),
				// Date and time must read off the same clock; the feed's own
				// offset is the venue's wall time.
				RawDate:    start.Format("2006-01-02"),
				StartTime:  start.Format("3:04 PM"),
				Status:     status,
				Link:       fmt.Sprintf("https://backoffice.bsport.io/m/%d/", studio.ID),
				SourceID:   fmt.Sprintf("bsport-%d-%d", studio.ID, s.ID),
			})
		}

		url = page.Next
	}

	return all, nil
}

func areaFromPostcode(postcode string) string {
	district := strings.ToUpper(strings.TrimSpace(postcode))
	if idx := strings.IndexByte(district, ' '); idx > 0 {
		district = district[:idx]
	}
	for len(district) >= 2 {
		if area, ok := postcodeAreas[district]; ok {
			return area
		}
		district = district[:len(district)-1]
	}
	return "London"
}
