package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopshap/shopshap/app/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SellerRepositoryImpl interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByID(ctx context.Context, id string) (*models.Seller, error)
	FindByUserID(ctx context.Context, userID string) (*models.Seller, error)
	Update(ctx context.Context, seller *models.Seller) error
	Delete(ctx context.Context, id string) error

	SetVerificationCode(ctx context.Context, sellerID, code string, expiresAt time.Time) error
	MarkVerified(ctx context.Context, sellerID string) error
	ResetVerification(ctx context.Context, sellerID string) error

	UpdateRememberToken(ctx context.Context, sellerID string, selector string, verifierHash string) error
	FindByRememberToken(ctx context.Context, tokenFromCookie string) (*models.Seller, error)
}

type sellerRepository struct {
	db *gorm.DB
}

func NewSellerRepository(db *gorm.DB) SellerRepositoryImpl {
	return &sellerRepository{db}
}

func (r *sellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	if seller.ID == "" {
		seller.ID = uuid.New().String()
	}
	if seller.Currency == "" {
		seller.Currency = "XOF"
	}

	seller.RememberTokenSelector = nil
	seller.RememberTokenHash = ""
	seller.VerificationCode = nil
	seller.VerificationExpiresAt = nil

	return r.db.WithContext(ctx).Create(seller).Error
}

func (r *sellerRepository) FindByID(ctx context.Context, id string) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.WithContext(ctx).First(&seller, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) FindByUserID(ctx context.Context, userID string) (*models.Seller, error) {
	var seller models.Seller
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&seller).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &seller, nil
}

func (r *sellerRepository) Update(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Save(seller).Error
}

// Delete removes the seller row together with its catalogue, products and
// secondary image rows in one transaction. Stored blobs are the caller's
// problem; repositories never talk to object storage.
func (r *sellerRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var catalogue models.Catalogue
		err := tx.Where("seller_id = ?", id).First(&catalogue).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		if err == nil {
			var productIDs []string
			if err := tx.Model(&models.Product{}).
				Where("catalogue_id = ?", catalogue.ID).
				Pluck("id", &productIDs).Error; err != nil {
				return err
			}

			if len(productIDs) > 0 {
				if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductImage{}).Error; err != nil {
					return err
				}
				if err := tx.Where("catalogue_id = ?", catalogue.ID).Delete(&models.Product{}).Error; err != nil {
					return err
				}
			}

			if err := tx.Delete(&catalogue).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", id).Delete(&models.Seller{}).Error
	})
}

func (r *sellerRepository) SetVerificationCode(ctx context.Context, sellerID, code string, expiresAt time.Time) error {
	updates := map[string]interface{}{
		"verification_code":       code,
		"verification_expires_at": expiresAt,
		"updated_at":              time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.Seller{}).Where("id = ?", sellerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to set verification code for seller %s: %w", sellerID, result.Error)
	}
	return nil
}

// MarkVerified flags the number as verified and clears the stored code so the
// same code cannot be replayed.
func (r *sellerRepository) MarkVerified(ctx context.Context, sellerID string) error {
	updates := map[string]interface{}{
		"whatsapp_verified":       true,
		"verification_code":       nil,
		"verification_expires_at": nil,
		"updated_at":              time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.Seller{}).Where("id = ?", sellerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to mark seller %s verified: %w", sellerID, result.Error)
	}
	return nil
}

// ResetVerification drops the verified flag, used when the seller changes
// their WhatsApp number.
func (r *sellerRepository) ResetVerification(ctx context.Context, sellerID string) error {
	updates := map[string]interface{}{
		"whatsapp_verified":       false,
		"verification_code":       nil,
		"verification_expires_at": nil,
		"updated_at":              time.Now(),
	}
	result := r.db.WithContext(ctx).Model(&models.Seller{}).Where("id = ?", sellerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to reset verification for seller %s: %w", sellerID, result.Error)
	}
	return nil
}

func (r *sellerRepository) UpdateRememberToken(ctx context.Context, sellerID string, selector string, verifierHash string) error {
	updates := map[string]interface{}{
		"remember_token_hash": verifierHash,
		"updated_at":          time.Now(),
	}
	if selector == "" {
		updates["remember_token_selector"] = nil
	} else {
		updates["remember_token_selector"] = &selector
	}

	result := r.db.WithContext(ctx).Model(&models.Seller{}).Where("id = ?", sellerID).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update remember token for seller %s: %w", sellerID, result.Error)
	}
	return nil
}

func (r *sellerRepository) FindByRememberToken(ctx context.Context, tokenFromCookie string) (*models.Seller, error) {
	parts := strings.SplitN(tokenFromCookie, ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid remember token format")
	}

	selector := parts[0]
	verifierRaw := parts[1]

	var seller models.Seller
	err := r.db.WithContext(ctx).Where("remember_token_selector = ?", selector).First(&seller).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	if seller.RememberTokenHash == "" || bcrypt.CompareHashAndPassword([]byte(seller.RememberTokenHash), []byte(verifierRaw)) != nil {
		return nil, nil
	}

	return &seller, nil
}
