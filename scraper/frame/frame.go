// Package frame scrapes the Frame studios timetable, which ships as
// server-rendered HTML, so a plain GET plus goquery is enough — no browser.
package frame

import (
	"context"
	"fmt"
	"strings"
	"time"

	"classhawk-scraper/models"
	"classhawk-scraper/scraper"
	"classhawk-scraper/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type Adapter struct {
	logger  *zap.SugaredLogger
	limiter *utils.RateLimiter
	http    *resty.Client
}

func New(logger *zap.SugaredLogger, rateDelayMs int) *Adapter {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	return &Adapter{
		logger:  logger,
		limiter: utils.NewRateLimiter(rateDelayMs),
		http:    client,
	}
}

func (a *Adapter) Name() string { return "frame" }

func (a *Adapter) Scrape(ctx context.Context, _ *scraper.Browser, cfg scraper.Config) ([]*models.RawClass, error) {
	var all []*models.RawClass

	for _, studio := range cfg.Locations {
		if err := a.limiter.Wait(ctx); err != nil {
			return all, err
		}

		classes, err := a.scrapeStudio(ctx, cfg, studio)
		if err != nil {
			return nil, fmt.Errorf("studio %s: %w", studio.Name, err)
		}
		all = append(all, classes...)
	}

	a.logger.Infof("[Frame] Collected %d classes across %d studios", len(all), len(cfg.Locations))
	return all, nil
}

func (a *Adapter) scrapeStudio(ctx context.Context, cfg scraper.Config, studio scraper.Location) ([]*models.RawClass, error) {
	url := fmt.Sprintf("%s/%s/timetable", cfg.BaseURL, studio.Slug)

	resp, err := a.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("timetable page returned %s", resp.Status())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("parse timetable HTML: %w", err)
	}

	var classes []*models.RawClass
	doc.Find(".timetable-day").Each(func(_ int, day *goquery.Selection) {
		date := strings.TrimSpace(day.AttrOr("data-date", ""))

		day.Find(".timetable-class").Each(func(_ int, row *goquery.Selection) {
			name := strings.TrimSpace(row.Find(".class-name").Text())
			start := strings.TrimSpace(row.Find(".class-time").Text())
			if name == "" || start == "" {
				return
			}

			status := strings.TrimSpace(row.Find(".class-availability, .book-button").First().Text())
			link := row.Find("a[href]").First().AttrOr("href", url)
			if strings.HasPrefix(link, "/") {
				link = cfg.BaseURL + link
			}

			classes = append(classes, &models.RawClass{
				GymSlug:   cfg.Slug,
				ClassName: name,
				Trainer:   strings.TrimSpace(row.Find(".class-instructor").Text()),
				Location:  "Frame " + studio.Name,
				Date:      date,
				Time:      start,
				Status:    status,
				Link:      link,
			})
		})
	})

	return classes, nil
}
