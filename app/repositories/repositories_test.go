package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"github.com/shopshap/shopshap/app/models/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func createTestSeller(t *testing.T, db *gorm.DB) *models.Seller {
	t.Helper()

	seller := &models.Seller{
		UserID:   uuid.New().String(),
		ShopName: "Safiatou Boutique",
		Currency: "XOF",
		WhatsApp: "+221771234567",
	}
	require.NoError(t, NewSellerRepository(db).Create(context.Background(), seller))
	return seller
}

func createTestCatalogue(t *testing.T, db *gorm.DB, sellerID, slug string) *models.Catalogue {
	t.Helper()

	catalogue := &models.Catalogue{
		SellerID: sellerID,
		Slug:     slug,
	}
	require.NoError(t, NewCatalogueRepository(db).Create(context.Background(), catalogue))
	return catalogue
}

func createTestProduct(t *testing.T, db *gorm.DB, catalogueID, name string, visible bool) *models.Product {
	t.Helper()

	repo := NewProductRepository(db)
	product := &models.Product{
		CatalogueID: catalogueID,
		Name:        name,
		Price:       decimal.NewFromInt(5000),
		Visible:     true,
	}
	require.NoError(t, repo.Create(context.Background(), product))

	// false would be dropped on insert as the column's zero value
	if !visible {
		require.NoError(t, repo.SetVisibility(context.Background(), product.ID, false))
		product.Visible = false
	}
	return product
}
