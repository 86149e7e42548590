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

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func withOrderItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("label ASC, id ASC") })
}

// FindByID finds an order by its ID, with items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := withOrderItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Order not found")
	}
	return model.ToDomain()
}

// FindByCustomer lists a customer's orders, newest first by default
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	query := applyOrderFilter(withOrderItems(r.db.WithContext(ctx)), customerID, filter)

	query = query.Order(orderSort.orderBy(filter.OrderBy, filter.OrderDir)).Order("id ASC")
	query = paginate(query, filter.Page, filter.PageSize)

	var rows []models.OrderModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, 0, len(rows))
	for i := range rows {
		o, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// CountByCustomer counts a customer's orders matching the filter
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	err := applyOrderFilter(r.db.WithContext(ctx).Model(&models.OrderModel{}), customerID, filter).
		Count(&count).Error
	return count, err
}

func applyOrderFilter(query *gorm.DB, customerID uuid.UUID, filter shared.Filter) *gorm.DB {
	query = query.Where("customer_id = ?", customerID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

// Create inserts the order together with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateWriteError(err, "Order")
		}
		if len(model.Items) == 0 {
			return nil
		}
		for i := range model.Items {
			model.Items[i].OrderID = order.ID
		}
		return translateWriteError(tx.Create(&model.Items).Error, "Order item")
	})
}

// UpdateState persists status and payment flag. The stored version must be
// older than the order's, otherwise another writer got there first. Items
// are never rewritten.
func (r *GormOrderRepository) UpdateState(ctx context.Context, order *trade.Order) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND version < ?", order.ID, order.Version).
		Updates(map[string]any{
			"status":     string(order.Status),
			"paid":       order.Paid,
			"version":    order.Version,
			"updated_at": order.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// DeleteByCustomer deletes every order of the customer with its items
func (r *GormOrderRepository) DeleteByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "customer_id = ?", customerID)
}

// DeleteAbandoned deletes unpaid orders in status created before cutoff
func (r *GormOrderRepository) DeleteAbandoned(ctx context.Context, status trade.OrderStatus, cutoff time.Time) (int64, error) {
	return r.deleteWhere(ctx, "status = ? AND paid = ? AND created_at < ?", string(status), false, cutoff)
}

func (r *GormOrderRepository) deleteWhere(ctx context.Context, cond string, args ...any) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.OrderModel{}).Where(cond, args...).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.OrderModel{})
		removed = result.RowsAffected
		return result.Error
	})
	return removed, err
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
