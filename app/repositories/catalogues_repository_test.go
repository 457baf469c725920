package repositories

import (
	"context"
	"testing"

	"github.com/shopshap/shopshap/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogueRepository_FindBySlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogueRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	createTestCatalogue(t, db, seller.ID, "safiatou-boutique")

	t.Run("known slug preloads the seller", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "safiatou-boutique")
		require.NoError(t, err)
		require.NotNil(t, found)
		require.NotNil(t, found.Seller)
		assert.Equal(t, seller.ShopName, found.Seller.ShopName)
	})

	t.Run("unknown slug returns nil, nil", func(t *testing.T) {
		found, err := repo.FindBySlug(ctx, "no-such-shop")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestCatalogueRepository_EnsureUniqueSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogueRepository(db)
	ctx := context.Background()

	t.Run("free base is returned unchanged", func(t *testing.T) {
		slug, err := repo.EnsureUniqueSlug(ctx, "chez-awa")
		require.NoError(t, err)
		assert.Equal(t, "chez-awa", slug)
	})

	t.Run("taken base gets numeric suffixes", func(t *testing.T) {
		first := createTestSeller(t, db)
		createTestCatalogue(t, db, first.ID, "chez-awa")

		slug, err := repo.EnsureUniqueSlug(ctx, "chez-awa")
		require.NoError(t, err)
		assert.Equal(t, "chez-awa-2", slug)

		second := createTestSeller(t, db)
		createTestCatalogue(t, db, second.ID, "chez-awa-2")

		slug, err = repo.EnsureUniqueSlug(ctx, "chez-awa")
		require.NoError(t, err)
		assert.Equal(t, "chez-awa-3", slug)
	})
}

func TestCatalogueRepository_UpdateSlug(t *testing.T) {
	db := newTestDB(t)
	repo := NewCatalogueRepository(db)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	catalogue := createTestCatalogue(t, db, seller.ID, "old-name")

	require.NoError(t, repo.UpdateSlug(ctx, catalogue.ID, "new-name"))

	found, err := repo.FindBySlug(ctx, "new-name")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, catalogue.ID, found.ID)

	// the old slug is free again, not redirected
	old, err := repo.FindBySlug(ctx, "old-name")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestCatalogueRepository_OneCataloguePerSeller(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seller := createTestSeller(t, db)
	createTestCatalogue(t, db, seller.ID, "first")

	repo := NewCatalogueRepository(db)
	found, err := repo.FindBySellerID(ctx, seller.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "first", found.Slug)

	// seller_id carries a unique index
	err = repo.Create(ctx, &models.Catalogue{SellerID: seller.ID, Slug: "second"})
	assert.Error(t, err)
}
