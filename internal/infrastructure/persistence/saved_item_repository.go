package persistence

import (
	"context"

	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSavedItemRepository implements SavedItemRepository using GORM
type GormSavedItemRepository struct {
	db *gorm.DB
}

// NewGormSavedItemRepository creates a new GormSavedItemRepository
func NewGormSavedItemRepository(db *gorm.DB) *GormSavedItemRepository {
	return &GormSavedItemRepository{db: db}
}

// FindByID finds a wishlist entry by its ID
func (r *GormSavedItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.SavedItem, error) {
	var model models.SavedItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Saved item not found")
	}
	return model.ToDomain()
}

// FindByCustomer lists the customer's wishlist, most recently saved first
func (r *GormSavedItemRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]trade.SavedItem, error) {
	var rows []models.SavedItemModel
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("added_at DESC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]trade.SavedItem, 0, len(rows))
	for i := range rows {
		item, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

// FindByCustomerAndTarget finds the entry the customer saved for target
func (r *GormSavedItemRepository) FindByCustomerAndTarget(ctx context.Context, customerID uuid.UUID, target trade.LineTarget) (*trade.SavedItem, error) {
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if target.IsVariant() {
		query = query.Where("variant_id = ?", target.ID())
	} else {
		query = query.Where("product_id = ?", target.ID())
	}

	var model models.SavedItemModel
	if err := query.First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Saved item not found")
	}
	return model.ToDomain()
}

// Save creates or updates a wishlist entry
func (r *GormSavedItemRepository) Save(ctx context.Context, item *trade.SavedItem) error {
	if err := item.Target.Validate(); err != nil {
		return err
	}
	model := models.SavedItemModelFromDomain(item)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, "Saved item")
}

// Delete deletes a wishlist entry
func (r *GormSavedItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SavedItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notFoundOr(gorm.ErrRecordNotFound, "Saved item not found")
	}
	return nil
}

// DeleteByCustomer clears the customer's wishlist
func (r *GormSavedItemRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.SavedItemModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormSavedItemRepository implements SavedItemRepository
var _ trade.SavedItemRepository = (*GormSavedItemRepository)(nil)
