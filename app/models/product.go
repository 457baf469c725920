package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CatalogueID string          `gorm:"size:36;not null;index" json:"catalogue_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(16,2);not null" json:"price"`
	ImageURL    string          `gorm:"size:512" json:"image_url"`
	Visible     bool            `gorm:"not null;default:true" json:"visible"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID" json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
