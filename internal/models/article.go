package models

import "time"

// Article is a community post owned by a single user.
type Article struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"` // Owner, immutable after creation
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the ownership guard contract.
func (a *Article) OwnerID() uint { return a.UserID }

type CreateArticleRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=120"`
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateArticleRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}
