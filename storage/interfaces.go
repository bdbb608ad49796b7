package storage

import (
	"context"

	"classhawk-scraper/models"
)

// ClassStore is the canonical-record sink: one bulk idempotent upsert keyed
// by class UID.
type ClassStore interface {
	UpsertClasses(ctx context.Context, classes []*models.Class) error
	Close()
}

// AlertStore exposes the bookmark and device tables the notifier reads
type AlertStore interface {
	BookmarksForClasses(ctx context.Context, classUIDs []string) ([]models.Bookmark, error)
	DevicesForUsers(ctx context.Context, userIDs []string) ([]models.Device, error)
	DeleteBookmarks(ctx context.Context, ids []int64) error
}
