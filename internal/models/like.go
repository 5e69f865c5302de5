package models

import "time"

const (
	TargetTypeArticle = "article"
	TargetTypeProduct = "product"
)

// Like represents a like on an article or product. The composite unique
// index guarantees at most one row per (user, target) pair even under
// concurrent toggles.
type Like struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_target_like"`
	TargetID   uint      `json:"target_id" gorm:"index;uniqueIndex:idx_user_target_like"`
	TargetType string    `json:"target_type" gorm:"size:20;uniqueIndex:idx_user_target_like"`
	CreatedAt  time.Time `json:"created_at"`
}
