package models

import "time"

// Comment represents a comment on an article or product.
type Comment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index"`
	TargetID   uint      `json:"target_id" gorm:"index:idx_comment_target"`
	TargetType string    `json:"target_type" gorm:"size:20;index:idx_comment_target"` // article, product
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at" gorm:"index"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// OwnerID satisfies the ownership guard contract.
func (c *Comment) OwnerID() uint { return c.UserID }

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
