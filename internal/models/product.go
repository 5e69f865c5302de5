package models

import "time"

const (
	ProductStatusSelling = "selling"
	ProductStatusSold    = "sold"
)

// Product is a marketplace listing with a price.
type Product struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"` // Owner, immutable after creation
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Price     int64     `json:"price"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'selling'"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID satisfies the ownership guard contract.
func (p *Product) OwnerID() uint { return p.UserID }

type CreateProductRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=120"`
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	Price    *int64 `json:"price" validate:"required,min=0"`
	ImageURL string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=120"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Price    *int64  `json:"price,omitempty" validate:"omitempty,min=0"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=selling sold"`
	ImageURL *string `json:"image_url,omitempty" validate:"omitempty,url"`
}
