// Package virginactive pulls club timetables from the Virgin Active UK club
// API. This is a pure HTTP adapter; the browser resource is unused. Like
// every adapter it is tied to one site's current response shape and gets
// rewritten whenever that shape moves.
package virginactive

import (
	"context"
	"fmt"
	"time"

	"classhawk-scraper/models"
	"classhawk-scraper/scraper"
	"classhawk-scraper/utils"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

type timetableResponse struct {
	Data struct {
		ClassTimes []struct {
			ID               int    `json:"id"`
			ClassID          int    `json:"classId"`
			InstructorID     int    `json:"instructorId"`
			StartTime        string `json:"startTime"`
			Status           string `json:"status"`
			Booked           int    `json:"booked"`
			Capacity         int    `json:"capacity"`
			WaitlistCapacity int    `json:"waitlistCapacity"`
		} `json:"classTimes"`
		Classes []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"classes"`
		Instructors []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"instructors"`
	} `json:"data"`
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
	client.SetHeader("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	return &Adapter{
		logger:  logger,
		limiter: utils.NewRateLimiter(rateDelayMs),
		http:    client,
	}
}

func (a *Adapter) Name() string { return "virginactive" }

func (a *Adapter) Scrape(ctx context.Context, _ *scraper.Browser, cfg scraper.Config) ([]*models.RawClass, error) {
	a.logger.Infof("[Virgin Active] Fetching schedules from %d clubs...", len(cfg.Locations))

	var all []*models.RawClass
	var lastErr error

	for _, club := range cfg.Locations {
		if err := a.limiter.Wait(ctx); err != nil {
			return all, err
		}

		classes, err := a.scrapeClub(ctx, cfg, club)
		if err != nil {
			// One club down doesn't sink the rest; remember the error in
			// case every club fails.
			a.logger.Errorf("[Virgin Active] %s: %v", club.Name, err)
			lastErr = err
			continue
		}
		all = append(all, classes...)
	}

	if len(all) == 0 && lastErr != nil {
		return nil, fmt.Errorf("all clubs failed, last error: %w", lastErr)
	}
	return all, nil
}

func (a *Adapter) scrapeClub(ctx context.Context, cfg scraper.Config, club scraper.Location) ([]*models.RawClass, error) {
	var body timetableResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get(fmt.Sprintf("%s/getclubtimetable?id=%d", cfg.BaseURL, club.ID))
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("timetable API returned %s", resp.Status())
	}

	classNames := make(map[int]string, len(body.Data.Classes))
	for _, c := range body.Data.Classes {
		classNames[c.ID] = c.Name
	}
	instructors := make(map[int]string, len(body.Data.Instructors))
	for _, i := range body.Data.Instructors {
		instructors[i.ID] = i.Name
	}

	var classes []*models.RawClass
	for _, ct := range body.Data.ClassTimes {
		start, err := time.Parse(time.RFC3339, ct.StartTime)
		if err != nil {
			continue
		}

		status := "Open"
		if ct.Status == "Full" || (ct.Capacity > 0 && ct.Booked >= ct.Capacity) {
			status = "Full"
			if ct.WaitlistCapacity > 0 {
				status = "Waitlist"
			}
		} else if ct.Status == "Waitlist" {
			status = "Waitlist"
		}

		name := classNames[ct.ClassID]
		if name == "" {
			name = "Class"
		}
		trainer := instructors[ct.InstructorID]
		if trainer == "" {
			trainer = "Staff"
		}

		classes = append(classes, &models.RawClass{
			GymSlug:   cfg.Slug,
			ClassName: name,
			Trainer:   trainer,
			Location:  "Virgin Active " + club.Name,
			Date:      start.Format("2006-01-02"),
			Time:      start.Format("15:04"),
			Status:    status,
			Link:      fmt.Sprintf("https://www.virginactive.co.uk/clubs/%s/timetable", club.Slug),
			SourceID:  fmt.Sprintf("virginactive-%d-%d", club.ID, ct.ID),
			Booked:    ct.Booked,
			Capacity:  ct.Capacity,
		})
	}

	return classes, nil
}
