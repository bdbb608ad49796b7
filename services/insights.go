package services

import (
	"classhawk-scraper/models"

	"go.uber.org/zap"
)

// InsightService computes per-run aggregates over the deduplicated batch
type InsightService struct {
	logger *zap.SugaredLogger
}

// NewInsightService creates a new InsightService
func NewInsightService(logger *zap.SugaredLogger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarizes one batch for the terminal report
func (s *InsightService) Generate(rawCount int, classes []*models.Class) *models.BatchSummary {
	summary := &models.BatchSummary{
		TotalRaw:   rawCount,
		ByBrand:    make(map[string]int),
		ByCategory: make(map[models.Category]int),
		ByStatus:   make(map[models.Status]int),
	}

	if len(classes) == 0 {
		s.logger.Warn("No classes to summarize")
		return summary
	}

	for _, c := range classes {
		summary.TotalClasses++
		summary.ByBrand[c.BrandSlug]++
		summary.ByCategory[c.Category]++
		summary.ByStatus[c.Status]++
		if c.Status == models.StatusOpen {
			summary.OpenClasses++
		}
	}

	return summary
}
