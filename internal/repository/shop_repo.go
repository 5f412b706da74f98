package repository

import (
	"context"

	"github.com/ybertrand/shopseo/internal/domain"
	"gorm.io/gorm"
)

// ShopRepository handles shop data operations.
type ShopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a new ShopRepository.
func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// Create inserts a new shop record.
func (r *ShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	return r.db.WithContext(ctx).Create(shop).Error
}

// GetByID retrieves a shop by its ID.
func (r *ShopRepository) GetByID(ctx context.Context, id string) (*domain.Shop, error) {
	var shop domain.Shop
	if err := r.db.WithContext(ctx).First(&shop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

// ListByOwner retrieves all shops belonging to one user.
func (r *ShopRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Shop, error) {
	var shops []domain.Shop
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}
