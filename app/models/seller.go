package models

import (
	"time"
)

type Seller struct {
	ID                    string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	UserID                string     `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	ShopName              string     `gorm:"size:255;not null" json:"shop_name"`
	Currency              string     `gorm:"size:3;not null;default:'XOF'" json:"currency"`
	WhatsApp              string     `gorm:"column:whatsapp;size:20;not null" json:"whatsapp"`
	WhatsAppVerified      bool       `gorm:"column:whatsapp_verified;not null;default:false" json:"whatsapp_verified"`
	VerificationCode      *string    `gorm:"size:6;null" json:"-"`
	VerificationExpiresAt *time.Time `gorm:"null" json:"-"`
	RememberTokenSelector *string    `gorm:"size:64;uniqueIndex;null" json:"-"`
	RememberTokenHash     string     `gorm:"size:255;null" json:"-"`
	Catalogue             *Catalogue `gorm:"foreignKey:SellerID" json:"catalogue,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// Currencies a shop can sell in. The list is fixed; onboarding and profile
// edits validate against it.
var Currencies = []Currency{
	{Code: "XOF", Name: "Franc CFA", Countries: "Sénégal, Côte d'Ivoire, Mali..."},
	{Code: "MAD", Name: "Dirham", Countries: "Maroc"},
	{Code: "TND", Name: "Dinar", Countries: "Tunisie"},
	{Code: "DZD", Name: "Dinar", Countries: "Algérie"},
	{Code: "NGN", Name: "Naira", Countries: "Nigéria"},
	{Code: "GHS", Name: "Cedi", Countries: "Ghana"},
	{Code: "KES", Name: "Shilling", Countries: "Kenya"},
	{Code: "USD", Name: "Dollar US", Countries: "International"},
	{Code: "EUR", Name: "Euro", Countries: "Europe"},
}

type Currency struct {
	Code      string
	Name      string
	Countries string
}

func ValidCurrency(code string) bool {
	for _, c := range Currencies {
		if c.Code == code {
			return true
		}
	}
	return false
}
