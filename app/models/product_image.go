package models

import (
	"time"
)

// ProductImage is a secondary image shown in the product carousel, ordered by
// Position ascending.
type ProductImage struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID string    `gorm:"size:36;not null;index" json:"product_id"`
	ImageURL  string    `gorm:"size:512;not null" json:"image_url"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
