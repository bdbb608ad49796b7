package services

import (
	"context"

	"classhawk-scraper/models"

	"go.uber.org/zap"
)

// BookmarkSource reads and retires user "alert me" registrations.
type BookmarkSource interface {
	BookmarksForClasses(ctx context.Context, classUIDs []string) ([]models.Bookmark, error)
	DeleteBookmarks(ctx context.Context, ids []int64) error
}

// DeviceSource resolves users to their push tokens.
type DeviceSource interface {
	DevicesForUsers(ctx context.Context, userIDs []string) ([]models.Device, error)
}

// PushSender delivers a batch of notifications. Implementations chunk to
// whatever the transport allows; failures are theirs to report as one error.
type PushSender interface {
	Send(ctx context.Context, messages []models.PushMessage) error
	ValidToken(token string) bool
}

// Notifier turns "this class just became Open" into at most one push per
// bookmark. A bookmark fires once and is then deleted — re-bookmarking is
// required to be alerted again, even if the class fills and reopens.
type Notifier struct {
	bookmarks BookmarkSource
	devices   DeviceSource
	sender    PushSender
	logger    *zap.SugaredLogger
}

// NewNotifier wires a Notifier to its stores and transport
func NewNotifier(bookmarks BookmarkSource, devices DeviceSource, sender PushSender, logger *zap.SugaredLogger) *Notifier {
	return &Notifier{
		bookmarks: bookmarks,
		devices:   devices,
		sender:    sender,
		logger:    logger,
	}
}

// CheckAndNotify matches the batch's open classes against bookmarks and fires
// push notifications. Best-effort throughout: every error is logged and
// swallowed, since persistence has already committed by the time this runs.
func (n *Notifier) CheckAndNotify(ctx context.Context, batch []*models.Class) {
	open := make(map[string]*models.Class)
	var openUIDs []string
	for _, c := range batch {
		if c.Status == models.StatusOpen {
			if _, dup := open[c.UID]; !dup {
				openUIDs = append(openUIDs, c.UID)
			}
			open[c.UID] = c
		}
	}

	if len(openUIDs) == 0 {
		n.logger.Debug("No open classes in this batch, skipping notifier")
		return
	}

	bookmarks, err := n.bookmarks.BookmarksForClasses(ctx, openUIDs)
	if err != nil {
		n.logger.Errorf("Notifier: bookmark lookup failed: %v", err)
		return
	}
	if len(bookmarks) == 0 {
		n.logger.Debug("No active bookmarks for these classes")
		return
	}
	n.logger.Infof("Found %d bookmark alerts to fire", len(bookmarks))

	userIDs := distinctUsers(bookmarks)
	devices, err := n.devices.DevicesForUsers(ctx, userIDs)
	if err != nil {
		n.logger.Errorf("Notifier: device lookup failed: %v", err)
		return
	}
	tokenByUser := make(map[string]string, len(devices))
	for _, d := range devices {
		tokenByUser[d.UserID] = d.Token
	}

	var messages []models.PushMessage
	var fired []int64
	for _, b := range bookmarks {
		class := open[b.ClassUID]
		token := tokenByUser[b.UserID]
		if class == nil || !n.sender.ValidToken(token) {
			continue
		}

		messages = append(messages, models.PushMessage{
			To:    token,
			Sound: "default",
			Title: "Spot Found!",
			Body:  class.ClassName + " w/ " + class.Trainer + " is now OPEN! Tap to book.",
			Data:  map[string]string{"url": class.Link},
		})
		fired = append(fired, b.ID)
	}

	if len(messages) == 0 {
		return
	}

	if err := n.sender.Send(ctx, messages); err != nil {
		// Bookmarks stay in place; the next run will try again.
		n.logger.Errorf("Notifier: push send failed: %v", err)
		return
	}
	n.logger.Infof("Sent %d push notifications", len(messages))

	// One shot, one kill. If this delete fails the user may hear about the
	// same opening once more next run; that's the documented trade.
	if err := n.bookmarks.DeleteBookmarks(ctx, fired); err != nil {
		n.logger.Errorf("Notifier: clearing %d fired bookmarks failed: %v", len(fired), err)
		return
	}
	n.logger.Debugf("Cleared %d fired bookmarks", len(fired))
}

func distinctUsers(bookmarks []models.Bookmark) []string {
	seen := make(map[string]bool, len(bookmarks))
	var users []string
	for _, b := range bookmarks {
		if !seen[b.UserID] {
			seen[b.UserID] = true
			users = append(users, b.UserID)
		}
	}
	return users
}
