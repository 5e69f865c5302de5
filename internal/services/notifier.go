package services

import (
	"log/slog"

	"github.com/dkrasnov/markethub/backend/internal/models"
	"github.com/dkrasnov/markethub/backend/internal/repositories"
)

// Pusher delivers an event to a user's live connections, if any.
// *ws.Hub satisfies this.
type Pusher interface {
	Push(userID uint, event string, data any) error
}

// Notifier persists notifications and pushes them over the live channel.
// The durable row is the source of truth; pushes are fire-and-forget.
type Notifier struct {
	notifications repositories.NotificationRepository
	pusher        Pusher
}

// NewNotifier creates a new Notifier.
func NewNotifier(notifications repositories.NotificationRepository, pusher Pusher) *Notifier {
	return &Notifier{notifications: notifications, pusher: pusher}
}

// Notify persists one notification and pushes it to the recipient.
// Self-notifications are suppressed here, not at the store.
func (n *Notifier) Notify(draft models.NotificationDraft) (*models.Notification, error) {
	if draft.RecipientID == draft.SenderID {
		return nil, nil
	}

	notification := &models.Notification{
		RecipientID: draft.RecipientID,
		SenderID:    draft.SenderID,
		EntityID:    draft.EntityID,
		Type:        draft.Type,
		Message:     draft.Message,
	}
	if err := n.notifications.CreateNotification(notification); err != nil {
		return nil, err
	}

	if err := n.pusher.Push(notification.RecipientID, "notification", notification); err != nil {
		slog.Warn("live push failed",
			"recipient_id", notification.RecipientID,
			"notification_id", notification.ID,
			"error", err,
		)
	}
	return notification, nil
}

// NotifyMany persists a batch in one bulk insert and then pushes each
// row to its recipient. A push failure for one recipient never blocks
// persistence or pushes to the others. Returns the persisted count.
func (n *Notifier) NotifyMany(drafts []models.NotificationDraft) (int, error) {
	notifications := make([]models.Notification, 0, len(drafts))
	for _, draft := range drafts {
		if draft.RecipientID == draft.SenderID {
			continue
		}
		notifications = append(notifications, models.Notification{
			RecipientID: draft.RecipientID,
			SenderID:    draft.SenderID,
			EntityID:    draft.EntityID,
			Type:        draft.Type,
			Message:     draft.Message,
		})
	}
	if len(notifications) == 0 {
		return 0, nil
	}

	if err := n.notifications.CreateNotifications(notifications); err != nil {
		return 0, err
	}

	for i := range notifications {
		notification := &notifications[i]
		if err := n.pusher.Push(notification.RecipientID, "notification", notification); err != nil {
			slog.Warn("live push failed",
				"recipient_id", notification.RecipientID,
				"notification_id", notification.ID,
				"error", err,
			)
		}
	}
	return len(notifications), nil
}
