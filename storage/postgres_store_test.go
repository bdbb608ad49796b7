package storage

import (
	"context"
	"errors"
	"testing"

	"classhawk-scraper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &PostgresStore{db: db, logger: zap.NewNop().Sugar()}, mock
}

func sampleClass(uid string, status models.Status) *models.Class {
	return &models.Class{
		UID:       uid,
		GymSlug:   "virgin-active-strand",
		BrandSlug: "virgin-active",
		ClassName: "BODYPUMP",
		Trainer:   "Sam",
		Location:  "Virgin Active Strand, London",
		Date:      "2026-03-10",
		Time:      "06:00",
		Status:    status,
		Category:  models.CategoryStrength,
		Link:      "https://example.com/book",
	}
}

func TestUpsertClassesEmptyBatchIsNoOp(t *testing.T) {
	store, mock := newMockStore(t)

	require.NoError(t, store.UpsertClasses(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet()) // the DB was never touched
}

func TestUpsertClassesWritesBatchInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`(?s)INSERT INTO classes.*ON CONFLICT \(class_uid\) DO UPDATE`)
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpsertClasses(context.Background(), []*models.Class{
		sampleClass("virginactive-68-991", models.StatusFull),
		sampleClass("virginactive-68-992", models.StatusOpen),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertClassesRepeatedIdentityUpdatesInPlace(t *testing.T) {
	store, mock := newMockStore(t)

	// The same identity key twice must run the same conflict-updating
	// statement, with the later status reaching the database.
	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`(?s)ON CONFLICT \(class_uid\) DO UPDATE SET.*status\s+= EXCLUDED\.status`)
	prep.ExpectExec().
		WithArgs("virginactive-68-991", "virgin-active-strand", "virgin-active", "BODYPUMP", "Sam",
			"Virgin Active Strand, London", "2026-03-10", "06:00", "Full", "strength", "https://example.com/book").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("virginactive-68-991", "virgin-active-strand", "virgin-active", "BODYPUMP", "Sam",
			"Virgin Active Strand, London", "2026-03-10", "06:00", "Open", "strength", "https://example.com/book").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.UpsertClasses(context.Background(), []*models.Class{
		sampleClass("virginactive-68-991", models.StatusFull),
		sampleClass("virginactive-68-991", models.StatusOpen),
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertClassesRollsBackOnRowFailure(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO classes`)
	prep.ExpectExec().WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	err := store.UpsertClasses(context.Background(), []*models.Class{
		sampleClass("bad-row", models.StatusOpen),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "bad-row")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookmarksForClassesScansRows(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "class_uid"}).
		AddRow(int64(7), "user-a", "virginactive-68-991").
		AddRow(int64(9), "user-b", "virginactive-68-991")
	mock.ExpectQuery(`SELECT id, user_id, class_uid\s+FROM class_bookmarks`).WillReturnRows(rows)

	got, err := store.BookmarksForClasses(context.Background(), []string{"virginactive-68-991"})
	require.NoError(t, err)
	require.Equal(t, []models.Bookmark{
		{ID: 7, UserID: "user-a", ClassUID: "virginactive-68-991"},
		{ID: 9, UserID: "user-b", ClassUID: "virginactive-68-991"},
	}, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBookmarksEmptyIsNoOp(t *testing.T) {
	store, mock := newMockStore(t)

	require.NoError(t, store.DeleteBookmarks(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}
