package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"classhawk-scraper/models"

	"go.uber.org/zap"
)

// CSVWriter snapshots the raw combined batch to disk before normalization,
// for debugging broken adapters after the fact.
type CSVWriter struct {
	filePath string
	logger   *zap.SugaredLogger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *zap.SugaredLogger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

// WriteRawClasses writes the raw batch to CSV, legacy keys included so the
// dump shows exactly what each adapter emitted
func (w *CSVWriter) WriteRawClasses(records []*models.RawClass) error {
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"gym", "gym_slug", "class_name", "instructor", "trainer", "location",
		"raw_date", "date", "start_time", "time", "status", "link", "source_id",
		"booked", "capacity",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Gym, r.GymSlug, r.ClassName, r.Instructor, r.Trainer, r.Location,
			r.RawDate, r.Date, r.StartTime, r.Time, r.Status, r.Link, r.SourceID,
			strconv.Itoa(r.Booked), strconv.Itoa(r.Capacity),
		}
		if err := writer.Write(row); err != nil {
			w.logger.Errorf("Failed to write CSV row for '%s': %v", r.ClassName, err)
		}
	}

	w.logger.Infof("Raw classes written to: %s (%d rows)", w.filePath, len(records))
	return nil
}
