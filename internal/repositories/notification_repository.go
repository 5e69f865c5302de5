package repositories

import (
	"github.com/dkrasnov/markethub/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	CreateNotifications(notifications []models.Notification) error
	ListByRecipient(recipientID uint, params CursorParams) ([]models.Notification, *uint, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository backed by PostgreSQL.
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// CreateNotifications persists a batch in input order. The batch is not
// required to be atomic as a set.
func (r *postgresNotificationRepository) CreateNotifications(notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.CreateInBatches(notifications, 100).Error
}

// ListByRecipient retrieves a cursor-mode page of the recipient's
// notifications, newest first. The second return value is the next
// cursor, nil when the list is exhausted.
func (r *postgresNotificationRepository) ListByRecipient(recipientID uint, params CursorParams) ([]models.Notification, *uint, error) {
	params.Clamp()

	query := r.db.Where("recipient_id = ?", recipientID)
	if params.Cursor > 0 {
		query = query.Where(
			"(created_at, id) < (SELECT created_at, id FROM notifications WHERE id = ?)",
			params.Cursor,
		)
	}

	var notifications []models.Notification
	err := query.Order("created_at DESC, id DESC").
		Limit(params.Limit).
		Find(&notifications).Error
	if err != nil {
		return nil, nil, err
	}

	var nextCursor *uint
	if len(notifications) == params.Limit {
		last := notifications[len(notifications)-1].ID
		nextCursor = &last
	}
	return notifications, nextCursor, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}

// MarkAsRead flips is_read for one of the recipient's notifications.
// Marking an already-read notification again is a no-op that still succeeds.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	res := r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish absent from already-read: only the former is an error.
		var count int64
		if err := r.db.Model(&models.Notification{}).
			Where("id = ? AND recipient_id = ?", notificationID, recipientID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

// MarkAllAsRead flips is_read on every unread notification of the
// recipient and returns the affected count. Idempotent: the second call
// in a row affects zero rows.
func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) (int64, error) {
	res := r.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
