// Package whatsapp builds wa.me deep links that open a chat with the seller
// and a prefilled order message. Link construction is pure string work; no
// check is made that the number actually has a WhatsApp account.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/utils/format"
)

const baseURL = "https://wa.me/"

// OrderLink builds the deep link behind a product card's order button.
func OrderLink(seller *models.Seller, product *models.Product) string {
	message := fmt.Sprintf("Bonjour, je veux commander %s - %s %s",
		product.Name, format.PlainPrice(product.Price), seller.Currency)
	return link(seller.WhatsApp, message)
}

// ContactLink builds the shop-level link used by the "contact seller" button.
func ContactLink(seller *models.Seller) string {
	message := fmt.Sprintf("Bonjour, je viens de votre boutique %s", seller.ShopName)
	return link(seller.WhatsApp, message)
}

func link(phone, message string) string {
	// percent-encoding throughout; QueryEscape's "+" for spaces is not
	// understood by every WhatsApp client
	encoded := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return baseURL + helpers.PhoneDigits(phone) + "?text=" + encoded
}
