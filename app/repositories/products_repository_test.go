package repositories

import (
	"context"
	"testing"

	"github.com/shopshap/shopshap/app/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_VisibilityFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	catalogue := createTestCatalogue(t, db, seller.ID, "safiatou-boutique")

	createTestProduct(t, db, catalogue.ID, "Robe wax", true)
	createTestProduct(t, db, catalogue.ID, "Sac en cuir", false)
	createTestProduct(t, db, catalogue.ID, "Foulard", true)

	t.Run("dashboard sees everything", func(t *testing.T) {
		products, err := repo.GetByCatalogue(ctx, catalogue.ID)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("public page sees only visible products", func(t *testing.T) {
		products, err := repo.GetVisibleByCatalogue(ctx, catalogue.ID)
		require.NoError(t, err)
		require.Len(t, products, 2)
		for _, p := range products {
			assert.True(t, p.Visible)
			assert.NotEqual(t, "Sac en cuir", p.Name)
		}
	})

	t.Run("toggling brings it back", func(t *testing.T) {
		all, err := repo.GetByCatalogue(ctx, catalogue.ID)
		require.NoError(t, err)
		var hidden models.Product
		for _, p := range all {
			if !p.Visible {
				hidden = p
			}
		}
		require.NotEmpty(t, hidden.ID)

		require.NoError(t, repo.SetVisibility(ctx, hidden.ID, true))

		products, err := repo.GetVisibleByCatalogue(ctx, catalogue.ID)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})
}

func TestProductRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	catalogue := createTestCatalogue(t, db, seller.ID, "chez-awa")

	product := &models.Product{
		CatalogueID: catalogue.ID,
		Name:        "Boucles d'oreilles",
		Description: "Laiton doré, fait main.",
		Price:       decimal.RequireFromString("2500.50"),
		ImageURL:    "https://cdn.example.com/products/b.jpg",
		Visible:     true,
	}
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Boucles d'oreilles", found.Name)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("2500.50")))

	found.Name = "Boucles dorées"
	require.NoError(t, repo.Update(ctx, found))

	updated, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boucles dorées", updated.Name)
}

func TestProductRepository_GetByIDUnknown(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)

	found, err := repo.GetByID(context.Background(), "no-such-product")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestProductRepository_DeleteRemovesImages(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	imageRepo := NewProductImageRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	catalogue := createTestCatalogue(t, db, seller.ID, "chez-awa")
	product := createTestProduct(t, db, catalogue.ID, "Sandales", true)

	require.NoError(t, imageRepo.Create(ctx, &models.ProductImage{
		ProductID: product.ID,
		ImageURL:  "https://cdn.example.com/products/c.jpg",
		Position:  0,
	}))

	require.NoError(t, repo.Delete(ctx, product.ID))

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	images, err := imageRepo.GetByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestProductImageRepository_Positions(t *testing.T) {
	db := newTestDB(t)
	imageRepo := NewProductImageRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	catalogue := createTestCatalogue(t, db, seller.ID, "chez-awa")
	product := createTestProduct(t, db, catalogue.ID, "Robe wax", true)

	t.Run("NextPosition starts at zero", func(t *testing.T) {
		pos, err := imageRepo.NextPosition(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, pos)
	})

	t.Run("NextPosition increments past the max", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.NoError(t, imageRepo.Create(ctx, &models.ProductImage{
				ProductID: product.ID,
				ImageURL:  "https://cdn.example.com/products/x.jpg",
				Position:  i,
			}))
		}

		pos, err := imageRepo.NextPosition(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, pos)
	})

	t.Run("GetByProduct orders by position", func(t *testing.T) {
		images, err := imageRepo.GetByProduct(ctx, product.ID)
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, 0, images[0].Position)
		assert.Equal(t, 1, images[1].Position)
	})

	t.Run("Delete returns the removed row", func(t *testing.T) {
		images, err := imageRepo.GetByProduct(ctx, product.ID)
		require.NoError(t, err)

		removed, err := imageRepo.Delete(ctx, images[0].ID)
		require.NoError(t, err)
		require.NotNil(t, removed)
		assert.Equal(t, images[0].ImageURL, removed.ImageURL)

		left, err := imageRepo.GetByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Len(t, left, 1)
	})

	t.Run("Delete unknown id returns nil, nil", func(t *testing.T) {
		removed, err := imageRepo.Delete(ctx, "no-such-image")
		require.NoError(t, err)
		assert.Nil(t, removed)
	})
}
