package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCatalogue(ctx context.Context, catalogueID string) ([]models.Product, error)
	GetVisibleByCatalogue(ctx context.Context, catalogueID string) ([]models.Product, error)
	SetVisibility(ctx context.Context, id string, visible bool) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{}).Error
	})
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// GetByCatalogue returns every product of a catalogue for the dashboard,
// newest first, visibility ignored.
func (p *productRepository) GetByCatalogue(ctx context.Context, catalogueID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("catalogue_id = ?", catalogueID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

// GetVisibleByCatalogue is the public-page query: only visible products,
// newest first, carousel images ordered.
func (p *productRepository) GetVisibleByCatalogue(ctx context.Context, catalogueID string) ([]models.Product, error) {
	var products []models.Product
	err := p.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("catalogue_id = ? AND visible = ?", catalogueID, true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (p *productRepository) SetVisibility(ctx context.Context, id string, visible bool) error {
	result := p.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"visible":    visible,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set visibility for product %s: %w", id, result.Error)
	}
	return nil
}
