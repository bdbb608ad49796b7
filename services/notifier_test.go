package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"classhawk-scraper/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAlertStore struct {
	bookmarks []models.Bookmark
	devices   []models.Device

	lookupCalls int
	deleted     []int64
	deleteErr   error
}

func (f *fakeAlertStore) BookmarksForClasses(_ context.Context, classUIDs []string) ([]models.Bookmark, error) {
	f.lookupCalls++
	uids := make(map[string]bool, len(classUIDs))
	for _, u := range classUIDs {
		uids[u] = true
	}
	var out []models.Bookmark
	for _, b := range f.bookmarks {
		if uids[b.ClassUID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeAlertStore) DevicesForUsers(_ context.Context, userIDs []string) ([]models.Device, error) {
	return f.devices, nil
}

func (f *fakeAlertStore) DeleteBookmarks(_ context.Context, ids []int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, ids...)
	remaining := f.bookmarks[:0]
	for _, b := range f.bookmarks {
		keep := true
		for _, id := range ids {
			if b.ID == id {
				keep = false
			}
		}
		if keep {
			remaining = append(remaining, b)
		}
	}
	f.bookmarks = remaining
	return nil
}

type fakeSender struct {
	sent    []models.PushMessage
	sendErr error
}

func (f *fakeSender) Send(_ context.Context, messages []models.PushMessage) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func (f *fakeSender) ValidToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[")
}

func openClass(uid string) *models.Class {
	return &models.Class{
		UID: uid, ClassName: "Reformer Flow", Trainer: "Sam",
		Status: models.StatusOpen, Link: "https://example.com/book",
	}
}

func TestNotifyAtMostOnce(t *testing.T) {
	store := &fakeAlertStore{
		bookmarks: []models.Bookmark{{ID: 1, UserID: "u1", ClassUID: "class-a"}},
		devices:   []models.Device{{UserID: "u1", Token: "ExponentPushToken[abc]"}},
	}
	sender := &fakeSender{}
	n := NewNotifier(store, store, sender, zap.NewNop().Sugar())

	batch := []*models.Class{openClass("class-a")}

	n.CheckAndNotify(context.Background(), batch)
	require.Len(t, sender.sent, 1)
	require.Equal(t, []int64{1}, store.deleted)
	require.Contains(t, sender.sent[0].Body, "Reformer Flow")
	require.Contains(t, sender.sent[0].Body, "Sam")
	require.Equal(t, "https://example.com/book", sender.sent[0].Data["url"])

	// Same class still open next run, bookmark already retired: no more pushes.
	n.CheckAndNotify(context.Background(), batch)
	require.Len(t, sender.sent, 1)
}

func TestNotifySkipsStoreWhenNothingOpen(t *testing.T) {
	store := &fakeAlertStore{
		bookmarks: []models.Bookmark{{ID: 1, UserID: "u1", ClassUID: "class-a"}},
	}
	sender := &fakeSender{}
	n := NewNotifier(store, store, sender, zap.NewNop().Sugar())

	n.CheckAndNotify(context.Background(), []*models.Class{
		{UID: "class-a", Status: models.StatusFull},
		{UID: "class-b", Status: models.StatusWaitlist},
	})

	require.Zero(t, store.lookupCalls, "empty open subset must not query the store")
	require.Empty(t, sender.sent)
}

func TestNotifySkipsUsersWithoutValidToken(t *testing.T) {
	store := &fakeAlertStore{
		bookmarks: []models.Bookmark{
			{ID: 1, UserID: "u1", ClassUID: "class-a"},
			{ID: 2, UserID: "u2", ClassUID: "class-a"},
		},
		devices: []models.Device{
			{UserID: "u1", Token: "ExponentPushToken[abc]"},
			{UserID: "u2", Token: "not-a-push-token"},
		},
	}
	sender := &fakeSender{}
	n := NewNotifier(store, store, sender, zap.NewNop().Sugar())

	n.CheckAndNotify(context.Background(), []*models.Class{openClass("class-a")})

	require.Len(t, sender.sent, 1)
	require.Equal(t, "ExponentPushToken[abc]", sender.sent[0].To)
	// Only the fired bookmark is retired; u2's stays for a future token.
	require.Equal(t, []int64{1}, store.deleted)
}

func TestNotifyKeepsBookmarksWhenSendFails(t *testing.T) {
	store := &fakeAlertStore{
		bookmarks: []models.Bookmark{{ID: 1, UserID: "u1", ClassUID: "class-a"}},
		devices:   []models.Device{{UserID: "u1", Token: "ExponentPushToken[abc]"}},
	}
	sender := &fakeSender{sendErr: errors.New("transport down")}
	n := NewNotifier(store, store, sender, zap.NewNop().Sugar())

	n.CheckAndNotify(context.Background(), []*models.Class{openClass("class-a")})

	require.Empty(t, store.deleted, "send failure must leave registrations in place")
	require.Len(t, store.bookmarks, 1)
}

func TestNotifySurvivesDeleteFailure(t *testing.T) {
	store := &fakeAlertStore{
		bookmarks: []models.Bookmark{{ID: 1, UserID: "u1", ClassUID: "class-a"}},
		devices:   []models.Device{{UserID: "u1", Token: "ExponentPushToken[abc]"}},
		deleteErr: errors.New("store hiccup"),
	}
	sender := &fakeSender{}
	n := NewNotifier(store, store, sender, zap.NewNop().Sugar())

	// Documented at-least-once edge: send succeeded, delete failed, no panic,
	// no error escapes.
	n.CheckAndNotify(context.Background(), []*models.Class{openClass("class-a")})
	require.Len(t, sender.sent, 1)
}
