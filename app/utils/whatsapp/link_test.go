package whatsapp

import (
	"testing"

	"github.com/shopshap/shopshap/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderLink(t *testing.T) {
	seller := &models.Seller{
		ShopName: "Safiatou Boutique",
		Currency: "XOF",
		WhatsApp: "+221 77 123 45 67",
	}
	product := &models.Product{
		Name:  "Robe wax",
		Price: decimal.NewFromInt(5000),
	}

	got := OrderLink(seller, product)
	assert.Equal(t, "https://wa.me/221771234567?text=Bonjour%2C%20je%20veux%20commander%20Robe%20wax%20-%205000%20XOF", got)
}

func TestOrderLinkDecimalPrice(t *testing.T) {
	seller := &models.Seller{Currency: "MAD", WhatsApp: "+212612345678"}
	product := &models.Product{
		Name:  "Foulard",
		Price: decimal.RequireFromString("149.50"),
	}

	got := OrderLink(seller, product)
	assert.Contains(t, got, "149.5%20MAD")
	assert.NotContains(t, got, "+")
}

func TestContactLink(t *testing.T) {
	seller := &models.Seller{
		ShopName: "Chez Awa",
		WhatsApp: "+221771234567",
	}

	got := ContactLink(seller)
	assert.Equal(t, "https://wa.me/221771234567?text=Bonjour%2C%20je%20viens%20de%20votre%20boutique%20Chez%20Awa", got)
}
