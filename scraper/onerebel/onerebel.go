// Package onerebel scrapes the 1Rebel timetable widget with the shared
// headless browser. The timetable is a client-rendered SPA, so records are
// lifted straight out of the DOM and the selectors here break whenever the
// site ships a redesign.
package onerebel

import (
	"context"
	"fmt"
	"time"

	"classhawk-scraper/models"
	"classhawk-scraper/scraper"
	"classhawk-scraper/utils"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

type card struct {
	Time     string `json:"time"`
	Name     string `json:"name"`
	Trainer  string `json:"trainer"`
	Studio   string `json:"studio"`
	Status   string `json:"status"`
	BookLink string `json:"bookLink"`
}

type Adapter struct {
	logger  *zap.SugaredLogger
	limiter *utils.RateLimiter
}

func New(logger *zap.SugaredLogger, rateDelayMs int) *Adapter {
	return &Adapter{
		logger:  logger,
		limiter: utils.NewRateLimiter(rateDelayMs),
	}
}

func (a *Adapter) Name() string { return "1rebel" }

func (a *Adapter) Scrape(ctx context.Context, browser *scraper.Browser, cfg scraper.Config) ([]*models.RawClass, error) {
	if browser == nil {
		return nil, fmt.Errorf("1rebel requires the shared browser")
	}

	tab, cancel := browser.NewTab(ctx)
	defer cancel()

	seen := utils.NewSeenSet()
	var all []*models.RawClass

	days := cfg.Days
	if days <= 0 {
		days = 1
	}

	for offset := 0; offset < days; offset++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return all, err
		}

		date := time.Now().AddDate(0, 0, offset).Format("2006-01-02")
		classes, err := a.scrapeDay(tab, cfg, date, seen)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", date, err)
		}
		all = append(all, classes...)
	}

	a.logger.Infof("[1Rebel] Collected %d classes over %d days", len(all), days)
	return all, nil
}

func (a *Adapter) scrapeDay(tab context.Context, cfg scraper.Config, date string, seen *utils.SeenSet) ([]*models.RawClass, error) {
	url := fmt.Sprintf("%s?date=%s", cfg.BaseURL, date)

	var cards []card
	err := chromedp.Run(tab,
		chromedp.Navigate(url),
		chromedp.Sleep(4*time.Second), // give the SPA time to render
		chromedp.Evaluate(`
			(function() {
				var out = [];
				document.querySelectorAll('[class*="timetable"] [class*="session"], .class-card').forEach(function(el) {
					var pick = function(sel) {
						var n = el.querySelector(sel);
						return n ? n.innerText.trim() : '';
					};
					var btn = el.querySelector('a[href*="book"], button');
					out.push({
						time: pick('[class*="time"]'),
						name: pick('[class*="name"], h3'),
						trainer: pick('[class*="trainer"], [class*="instructor"]'),
						studio: pick('[class*="studio"], [class*="location"]'),
						status: btn ? btn.innerText.trim() : '',
						bookLink: btn && btn.href ? btn.href : ''
					});
				});
				return out;
			})()
		`, &cards),
	)
	if err != nil {
		return nil, fmt.Errorf("DOM extraction failed: %w", err)
	}

	var classes []*models.RawClass
	for _, c := range cards {
		if c.Time == "" || c.Name == "" {
			continue
		}
		// The widget repeats sticky cards across day views.
		if !seen.Add(date + "|" + c.Time + "|" + c.Name + "|" + c.Studio) {
			continue
		}

		link := c.BookLink
		if link == "" {
			link = cfg.BaseURL
		}

		classes = append(classes, &models.RawClass{
			GymSlug:   cfg.Slug,
			ClassName: c.Name,
			Trainer:   c.Trainer,
			Location:  "1Rebel " + c.Studio,
			Date:      date,
			Time:      c.Time,
			Status:    c.Status, // button text; the normalizer maps it fail-closed
			Link:      link,
		})
	}

	return classes, nil
}
