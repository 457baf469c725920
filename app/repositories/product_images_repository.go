package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"gorm.io/gorm"
)

type ProductImageRepositoryImpl interface {
	Create(ctx context.Context, image *models.ProductImage) error
	GetByProduct(ctx context.Context, productID string) ([]models.ProductImage, error)
	Delete(ctx context.Context, id string) (*models.ProductImage, error)
	NextPosition(ctx context.Context, productID string) (int, error)
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepositoryImpl {
	return &productImageRepository{db}
}

func (r *productImageRepository) Create(ctx context.Context, image *models.ProductImage) error {
	if image.ID == "" {
		image.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *productImageRepository) GetByProduct(ctx context.Context, productID string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

// Delete removes the row and returns it so the caller can clean up the blob.
func (r *productImageRepository) Delete(ctx context.Context, id string) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).Delete(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) NextPosition(ctx context.Context, productID string) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}
