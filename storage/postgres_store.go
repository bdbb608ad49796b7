package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"classhawk-scraper/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore holds the shared classes/bookmarks/devices tables. Each call
// is stateless; the upsert transaction is the unit of atomicity.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.SugaredLogger
}

var (
	_ ClassStore = (*PostgresStore)(nil)
	_ AlertStore = (*PostgresStore)(nil)
)

// NewPostgresStore opens and pings the database
func NewPostgresStore(connStr string, logger *zap.SugaredLogger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	logger.Info("Connected to PostgreSQL successfully")
	return &PostgresStore{db: db, logger: logger}, nil
}

// CreateTables bootstraps the schema if it doesn't exist, with indexes
func (s *PostgresStore) CreateTables() error {
	query := `
	CREATE TABLE IF NOT EXISTS classes (
		class_uid  TEXT PRIMARY KEY,
		gym_slug   TEXT NOT NULL,
		brand_slug TEXT NOT NULL,
		class_name TEXT NOT NULL,
		trainer    TEXT,
		location   TEXT,
		date       TEXT NOT NULL,
		time       TEXT NOT NULL,
		status     TEXT NOT NULL,
		category   TEXT NOT NULL,
		link       TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_classes_gym_slug   ON classes (gym_slug);
	CREATE INDEX IF NOT EXISTS idx_classes_brand_slug ON classes (brand_slug);
	CREATE INDEX IF NOT EXISTS idx_classes_date       ON classes (date);
	CREATE INDEX IF NOT EXISTS idx_classes_status     ON classes (status);

	CREATE TABLE IF NOT EXISTS class_bookmarks (
		id        BIGSERIAL PRIMARY KEY,
		user_id   TEXT NOT NULL,
		class_uid TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookmarks_class_uid ON class_bookmarks (class_uid);

	CREATE TABLE IF NOT EXISTS user_devices (
		user_id      TEXT NOT NULL,
		device_token TEXT NOT NULL,
		PRIMARY KEY (user_id, device_token)
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	s.logger.Info("Schema is ready")
	return nil
}

// UpsertClasses writes the batch in a single transaction: new identities are
// inserted, existing ones have every mutable field overwritten. Empty input
// is a no-op.
func (s *PostgresStore) UpsertClasses(ctx context.Context, classes []*models.Class) error {
	if len(classes) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classes (class_uid, gym_slug, brand_slug, class_name, trainer, location, date, time, status, category, link, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (class_uid) DO UPDATE SET
			gym_slug   = EXCLUDED.gym_slug,
			brand_slug = EXCLUDED.brand_slug,
			class_name = EXCLUDED.class_name,
			trainer    = EXCLUDED.trainer,
			location   = EXCLUDED.location,
			date       = EXCLUDED.date,
			time       = EXCLUDED.time,
			status     = EXCLUDED.status,
			category   = EXCLUDED.category,
			link       = EXCLUDED.link,
			updated_at = NOW()
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range classes {
		if _, err = stmt.ExecContext(ctx,
			c.UID,
			c.GymSlug,
			c.BrandSlug,
			c.ClassName,
			c.Trainer,
			c.Location,
			c.Date,
			c.Time,
			string(c.Status),
			string(c.Category),
			c.Link,
		); err != nil {
			return fmt.Errorf("upsert failed for %q: %w", c.UID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	s.logger.Infof("Synced %d classes to PostgreSQL", len(classes))
	return nil
}

// BookmarksForClasses returns all registrations whose class UID is in the set
func (s *PostgresStore) BookmarksForClasses(ctx context.Context, classUIDs []string) ([]models.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, class_uid
		FROM class_bookmarks
		WHERE class_uid = ANY($1)
	`, pq.Array(classUIDs))
	if err != nil {
		return nil, fmt.Errorf("bookmark query failed: %w", err)
	}
	defer rows.Close()

	var bookmarks []models.Bookmark
	for rows.Next() {
		var b models.Bookmark
		if err := rows.Scan(&b.ID, &b.UserID, &b.ClassUID); err != nil {
			return nil, fmt.Errorf("bookmark scan failed: %w", err)
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, rows.Err()
}

// DevicesForUsers returns push tokens for the given users
func (s *PostgresStore) DevicesForUsers(ctx context.Context, userIDs []string) ([]models.Device, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, device_token
		FROM user_devices
		WHERE user_id = ANY($1)
	`, pq.Array(userIDs))
	if err != nil {
		return nil, fmt.Errorf("device query failed: %w", err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.UserID, &d.Token); err != nil {
			return nil, fmt.Errorf("device scan failed: %w", err)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// DeleteBookmarks removes fired registrations by id
func (s *PostgresStore) DeleteBookmarks(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM class_bookmarks WHERE id = ANY($1)
	`, pq.Array(ids)); err != nil {
		return fmt.Errorf("bookmark delete failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}
