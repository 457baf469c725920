package migrations

import (
	"github.com/shopshap/shopshap/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Seller{}, &models.Catalogue{}, &models.Product{}, &models.ProductImage{})
}
