// Package configs declares which adapters a run executes and with what
// per-studio configuration, mirroring how each studio's booking surface is
// laid out today.
package configs

import (
	"classhawk-scraper/config"
	"classhawk-scraper/scraper"
	"classhawk-scraper/scraper/bsport"
	"classhawk-scraper/scraper/frame"
	"classhawk-scraper/scraper/onerebel"
	"classhawk-scraper/scraper/virginactive"

	"go.uber.org/zap"
)

// Registry returns the configured adapters in execution order. Order is
// fixed: it decides last-write-wins precedence if two sources ever emit the
// same identity key.
func Registry(cfg *config.Config, logger *zap.SugaredLogger) []scraper.Entry {
	return []scraper.Entry{
		{
			Name:    "1rebel",
			Adapter: onerebel.New(logger, cfg.RateLimitDelay),
			Config: scraper.Config{
				BaseURL: "https://www.1rebel.com/timetable",
				Slug:    "1rebel",
				Days:    3,
			},
		},
		{
			Name:    "virginactive",
			Adapter: virginactive.New(logger, cfg.RateLimitDelay),
			Config: scraper.Config{
				BaseURL: "https://www.virginactive.co.uk/api/club",
				Slug:    "virginactive",
				Locations: []scraper.Location{
					{ID: 76, Name: "Aldersgate", Slug: "aldersgate"},
					{ID: 29, Name: "Bank", Slug: "bank"},
					{ID: 34, Name: "Bromley", Slug: "bromley"},
					{ID: 35, Name: "Canary Riverside", Slug: "canary-riverside"},
					{ID: 953, Name: "Cannon Street (Walbrook)", Slug: "cannon-street"},
					{ID: 421, Name: "Chiswick Park", Slug: "chiswick-park"},
					{ID: 405, Name: "Chiswick Riverside", Slug: "chiswick-riverside"},
					{ID: 38, Name: "Clapham", Slug: "clapham"},
					{ID: 39, Name: "Crouch End", Slug: "crouch-end"},
					{ID: 47, Name: "Fulham Pools", Slug: "fulham-pools"},
					{ID: 12, Name: "Islington Angel", Slug: "islington-angel"},
					{ID: 51, Name: "Kensington", Slug: "kensington"},
					{ID: 56, Name: "Mayfair", Slug: "mayfair"},
					{ID: 57, Name: "Mill Hill", Slug: "mill-hill"},
					{ID: 59, Name: "Moorgate", Slug: "moorgate"},
					{ID: 60, Name: "Notting Hill", Slug: "notting-hill"},
					{ID: 68, Name: "Strand", Slug: "strand"},
					{ID: 69, Name: "Streatham", Slug: "streatham"},
					{ID: 410, Name: "Swiss Cottage", Slug: "swiss-cottage"},
					{ID: 425, Name: "Wandsworth Smugglers Way", Slug: "wandsworth-smugglers-way"},
					{ID: 408, Name: "Wimbledon Worple Road", Slug: "wimbledon-worple-road"},
				},
			},
		},
		{
			Name:    "frame",
			Adapter: frame.New(logger, cfg.RateLimitDelay),
			Config: scraper.Config{
				BaseURL: "https://moveyourframe.com",
				Slug:    "frame",
				Locations: []scraper.Location{
					{Name: "Shoreditch", Slug: "shoreditch"},
					{Name: "Kings Cross", Slug: "kings-cross"},
					{Name: "Victoria", Slug: "victoria"},
					{Name: "Angel", Slug: "angel"},
					{Name: "Hammersmith", Slug: "hammersmith"},
				},
			},
		},
		{
			Name:    "bsport",
			Adapter: bsport.New(logger, cfg.RateLimitDelay),
			Config: scraper.Config{
				BaseURL: "https://api.production.bsport.io/api/v1",
				Slug:    "bsport",
				Days:    3,
				Locations: []scraper.Location{
					{ID: 1417, Name: "BST Lagree City", Slug: "bst-lagree"},
					{ID: 2236, Name: "Pilates Circuit Aldgate", Slug: "pilates-circuit"},
					{ID: 1882, Name: "Shiva Shakti Yoga", Slug: "shiva-shakti"},
				},
			},
		},
	}
}
