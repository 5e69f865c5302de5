package models

import "time"

const (
	UploadStatusPending  = "pending"
	UploadStatusAttached = "attached"
)

// Upload tracks an object-store upload from grant to attachment. Pending
// rows older than the orphan age are swept together with their objects.
type Upload struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Key       string    `json:"key" gorm:"uniqueIndex"`
	URL       string    `json:"url"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

type UploadGrantRequest struct {
	ContentType   string `json:"content_type" validate:"required"`
	ContentLength int64  `json:"content_length" validate:"required,min=1"`
}

type CompleteUploadRequest struct {
	Key string `json:"key" validate:"required"`
}
