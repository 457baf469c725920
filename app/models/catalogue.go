package models

import (
	"time"
)

// Catalogue is the seller's public listing. One per seller, addressed by a
// globally unique slug.
type Catalogue struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	SellerID  string    `gorm:"size:36;not null;uniqueIndex" json:"seller_id"`
	Slug      string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Seller    *Seller   `gorm:"foreignKey:SellerID;references:ID" json:"seller,omitempty"`
	Products  []Product `gorm:"foreignKey:CatalogueID" json:"products,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
