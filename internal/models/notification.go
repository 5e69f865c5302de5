package models

import "time"

const (
	NotificationArticleLike        = "ARTICLE_LIKE"
	NotificationProductLike        = "PRODUCT_LIKE"
	NotificationArticleComment     = "ARTICLE_COMMENT"
	NotificationProductComment     = "PRODUCT_COMMENT"
	NotificationProductPriceChange = "PRODUCT_PRICE_CHANGE"
)

// Notification represents a persisted user notification. Rows are only
// ever mutated to flip IsRead.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	SenderID    uint      `json:"sender_id" gorm:"index"`
	EntityID    uint      `json:"entity_id"` // article, product or comment ID
	Type        string    `json:"type" gorm:"size:30;index"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NotificationDraft is the input to the fan-out service.
type NotificationDraft struct {
	RecipientID uint
	SenderID    uint
	EntityID    uint
	Type        string
	Message     string
}
