package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"gorm.io/gorm"
)

type CatalogueRepositoryImpl interface {
	Create(ctx context.Context, catalogue *models.Catalogue) error
	FindBySlug(ctx context.Context, slug string) (*models.Catalogue, error)
	FindBySellerID(ctx context.Context, sellerID string) (*models.Catalogue, error)
	UpdateSlug(ctx context.Context, catalogueID, slug string) error
	EnsureUniqueSlug(ctx context.Context, base string) (string, error)
}

type catalogueRepository struct {
	db *gorm.DB
}

func NewCatalogueRepository(db *gorm.DB) CatalogueRepositoryImpl {
	return &catalogueRepository{db}
}

func (r *catalogueRepository) Create(ctx context.Context, catalogue *models.Catalogue) error {
	if catalogue.ID == "" {
		catalogue.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(catalogue).Error
}

// FindBySlug loads the catalogue with its seller, the public page's entry
// point. Returns (nil, nil) for an unknown slug.
func (r *catalogueRepository) FindBySlug(ctx context.Context, slug string) (*models.Catalogue, error) {
	var catalogue models.Catalogue
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Where("slug = ?", slug).
		First(&catalogue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &catalogue, nil
}

func (r *catalogueRepository) FindBySellerID(ctx context.Context, sellerID string) (*models.Catalogue, error) {
	var catalogue models.Catalogue
	err := r.db.WithContext(ctx).Where("seller_id = ?", sellerID).First(&catalogue).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &catalogue, nil
}

func (r *catalogueRepository) UpdateSlug(ctx context.Context, catalogueID, slug string) error {
	result := r.db.WithContext(ctx).Model(&models.Catalogue{}).
		Where("id = ?", catalogueID).
		Update("slug", slug)
	if result.Error != nil {
		return fmt.Errorf("failed to update slug for catalogue %s: %w", catalogueID, result.Error)
	}
	return nil
}

// EnsureUniqueSlug returns base when free, otherwise the first free
// base-2, base-3, ... variant. Slugs are never versioned; a rename simply
// claims a new one.
func (r *catalogueRepository) EnsureUniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 2; ; i++ {
		var count int64
		if err := r.db.WithContext(ctx).Model(&models.Catalogue{}).
			Where("slug = ?", candidate).
			Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
