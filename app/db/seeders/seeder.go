package seeders

import (
	"log"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/db/fakers"
	"github.com/shopshap/shopshap/app/helpers"
	"github.com/shopshap/shopshap/app/models"
	"gorm.io/gorm"
)

const demoProductCount = 4

// DBSeed creates a demo seller with a catalogue and a handful of products.
// Running it twice is safe; the seller is keyed on a fixed user id.
func DBSeed(db *gorm.DB) error {
	seller := &models.Seller{
		ID:               uuid.New().String(),
		UserID:           "demo-seller",
		ShopName:         "Safiatou Boutique",
		Currency:         "XOF",
		WhatsApp:         "+221771234567",
		WhatsAppVerified: true,
	}
	if err := db.Debug().FirstOrCreate(seller, "user_id = ?", seller.UserID).Error; err != nil {
		return err
	}

	catalogue := &models.Catalogue{
		ID:       uuid.New().String(),
		SellerID: seller.ID,
		Slug:     helpers.GenerateSlug(seller.ShopName),
	}
	if err := db.Debug().FirstOrCreate(catalogue, "seller_id = ?", seller.ID).Error; err != nil {
		return err
	}

	for i := 0; i < demoProductCount; i++ {
		product := fakers.ProductFaker(catalogue.ID)
		if err := db.Debug().Create(product).Error; err != nil {
			return err
		}
	}

	log.Printf("✅ Seeded demo catalogue at /%s", catalogue.Slug)
	return nil
}
