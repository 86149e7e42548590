package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDiscountRepository implements DiscountRepository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

func withDiscountTargets(db *gorm.DB) *gorm.DB {
	return db.Preload("Products").Preload("Brands").Preload("Categories")
}

// FindByID finds a discount by its ID, with its targets
func (r *GormDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Discount, error) {
	var model models.DiscountModel
	if err := withDiscountTargets(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Discount not found")
	}
	return model.ToDomain(), nil
}

// FindAll finds all discounts matching the filter. The default order is
// priority descending then name.
func (r *GormDiscountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Discount, error) {
	query := r.applyFilter(withDiscountTargets(r.db.WithContext(ctx)), filter)

	if filter.OrderBy == "" {
		query = query.Order("priority DESC, name ASC")
	} else {
		query = query.Order(discountSort.orderBy(filter.OrderBy, filter.OrderDir))
	}
	query = paginate(query, filter.Page, filter.PageSize)

	var rows []models.DiscountModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return discountsToDomain(rows), nil
}

// Count counts discounts matching the filter
func (r *GormDiscountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.DiscountModel{}), filter).Count(&count).Error
	return count, err
}

// FindActiveOn returns the discounts that are switched on and whose date
// window contains the calendar date of asOf
func (r *GormDiscountRepository) FindActiveOn(ctx context.Context, asOf time.Time) ([]catalog.Discount, error) {
	nextDay := shared.DateOf(asOf).AddDate(0, 0, 1)

	var rows []models.DiscountModel
	if err := withDiscountTargets(r.db.WithContext(ctx)).
		Where("active = ? AND start_date < ?", true, nextDay).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// The end-date bound is inclusive by calendar day; the domain applies it.
	active := make([]catalog.Discount, 0, len(rows))
	for _, d := range discountsToDomain(rows) {
		if d.IsActive(asOf) {
			active = append(active, d)
		}
	}
	catalog.SortDiscounts(active)
	return active, nil
}

// Save creates or updates a discount and replaces its targets
func (r *GormDiscountRepository) Save(ctx context.Context, discount *catalog.Discount) error {
	model := models.DiscountModelFromDomain(discount)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateWriteError(err, "Discount")
		}
		if err := clearDiscountTargets(tx, discount.ID); err != nil {
			return err
		}
		if len(model.Products) > 0 {
			if err := tx.Create(&model.Products).Error; err != nil {
				return translateWriteError(err, "Discount product")
			}
		}
		if len(model.Brands) > 0 {
			if err := tx.Create(&model.Brands).Error; err != nil {
				return translateWriteError(err, "Discount brand")
			}
		}
		if len(model.Categories) > 0 {
			if err := tx.Create(&model.Categories).Error; err != nil {
				return translateWriteError(err, "Discount category")
			}
		}
		return nil
	})
}

// Delete deletes a discount and its targets
func (r *GormDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearDiscountTargets(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&models.DiscountModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewNotFoundError("Discount not found")
		}
		return nil
	})
}

func (r *GormDiscountRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "priority":
			query = query.Where("priority = ?", value)
		}
	}
	return query
}

func clearDiscountTargets(tx *gorm.DB, id uuid.UUID) error {
	for _, m := range []any{&models.DiscountProductModel{}, &models.DiscountBrandModel{}, &models.DiscountCategoryModel{}} {
		if err := tx.Where("discount_id = ?", id).Delete(m).Error; err != nil {
			return err
		}
	}
	return nil
}

func discountsToDomain(rows []models.DiscountModel) []catalog.Discount {
	discounts := make([]catalog.Discount, len(rows))
	for i := range rows {
		discounts[i] = *rows[i].ToDomain()
	}
	return discounts
}

// Ensure GormDiscountRepository implements DiscountRepository
var _ catalog.DiscountRepository = (*GormDiscountRepository)(nil)
