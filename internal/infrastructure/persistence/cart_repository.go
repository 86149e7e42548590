package persistence

import (
	"context"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/domain/trade"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByOwner finds the cart of a customer or session
func (r *GormCartRepository) FindByOwner(ctx context.Context, owner trade.CartOwner) (*trade.Cart, error) {
	return r.findByOwner(r.db.WithContext(ctx), owner)
}

// FindByOwnerForUpdate finds the cart and locks its row (SELECT ... FOR UPDATE).
// Must be called inside a transaction. SQLite has no row locks and serializes
// writers instead.
func (r *GormCartRepository) FindByOwnerForUpdate(ctx context.Context, owner trade.CartOwner) (*trade.Cart, error) {
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.findByOwner(db, owner)
}

func (r *GormCartRepository) findByOwner(db *gorm.DB, owner trade.CartOwner) (*trade.Cart, error) {
	if customerID, ok := owner.CustomerID(); ok {
		db = db.Where("customer_id = ?", customerID)
	} else if key, ok := owner.SessionKey(); ok {
		db = db.Where("session_key = ?", key)
	} else {
		return nil, shared.NewValidationError("Cart owner is required")
	}

	var model models.CartModel
	if err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC, id ASC") }).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err, "Cart not found")
	}
	return model.ToDomain()
}

// FindItemCartID returns the cart that holds the item
func (r *GormCartRepository) FindItemCartID(ctx context.Context, itemID uuid.UUID) (uuid.UUID, error) {
	var item models.CartItemModel
	if err := r.db.WithContext(ctx).Select("id", "cart_id").First(&item, "id = ?", itemID).Error; err != nil {
		return uuid.Nil, notFoundOr(err, "Cart item not found")
	}
	return item.CartID, nil
}

// Save creates or updates the cart and replaces its items. Lines without a
// valid target are refused before anything is written; a second line for a
// target the cart already holds fails on the unique indexes.
func (r *GormCartRepository) Save(ctx context.Context, cart *trade.Cart) error {
	for i := range cart.Items {
		if err := cart.Items[i].Target.Validate(); err != nil {
			return err
		}
	}
	model := models.CartModelFromDomain(cart)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateWriteError(err, "Cart")
		}

		itemIDs := make([]uuid.UUID, len(model.Items))
		for i := range model.Items {
			model.Items[i].CartID = cart.ID
			itemIDs[i] = model.Items[i].ID
		}
		stale := tx.Where("cart_id = ?", cart.ID)
		if len(itemIDs) > 0 {
			stale = stale.Where("id NOT IN ?", itemIDs)
		}
		if err := stale.Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}

		for i := range model.Items {
			if err := tx.Save(&model.Items[i]).Error; err != nil {
				return translateWriteError(err, "Cart item")
			}
		}
		return nil
	})
}

// Delete deletes a cart and its items
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CartModel{}, "id = ?", id).Error
	})
}

// DeleteByCustomer deletes the customer's cart
func (r *GormCartRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "customer_id = ?", customerID)
}

// DeleteAnonymousIdleSince deletes session carts untouched since cutoff
func (r *GormCartRepository) DeleteAnonymousIdleSince(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.deleteWhere(ctx, "customer_id IS NULL AND updated_at < ?", cutoff)
}

func (r *GormCartRepository) deleteWhere(ctx context.Context, cond string, args ...any) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.CartModel{}).Where(cond, args...).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("cart_id IN ?", ids).Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.CartModel{})
		removed = result.RowsAffected
		return result.Error
	})
	return removed, err
}

// Ensure GormCartRepository implements CartRepository
var _ trade.CartRepository = (*GormCartRepository)(nil)
