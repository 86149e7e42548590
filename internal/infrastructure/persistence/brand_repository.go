package persistence

import (
	"context"
	"strings"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBrandRepository implements BrandRepository using GORM
type GormBrandRepository struct {
	db *gorm.DB
}

// NewGormBrandRepository creates a new GormBrandRepository
func NewGormBrandRepository(db *gorm.DB) *GormBrandRepository {
	return &GormBrandRepository{db: db}
}

// FindByID finds a brand by its ID
func (r *GormBrandRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Brand, error) {
	var model models.BrandModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Brand not found")
	}
	return model.ToDomain(), nil
}

// FindAll finds all brands matching the filter
func (r *GormBrandRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Brand, error) {
	var rows []models.BrandModel
	query := r.applySearch(r.db.WithContext(ctx).Model(&models.BrandModel{}), filter)

	query = query.Order(brandSort.orderBy(filter.OrderBy, filter.OrderDir))
	query = paginate(query, filter.Page, filter.PageSize)

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	brands := make([]catalog.Brand, len(rows))
	for i := range rows {
		brands[i] = *rows[i].ToDomain()
	}
	return brands, nil
}

// Count counts brands matching the filter
func (r *GormBrandRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := r.applySearch(r.db.WithContext(ctx).Model(&models.BrandModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByName checks for a brand with the given name, ignoring case
func (r *GormBrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BrandModel{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a brand
func (r *GormBrandRepository) Save(ctx context.Context, brand *catalog.Brand) error {
	model := models.BrandModelFromDomain(brand)
	return translateWriteError(r.db.WithContext(ctx).Save(model).Error, "Brand")
}

// DeleteCascade deletes the brand and every product it owns
func (r *GormBrandRepository) DeleteCascade(ctx context.Context, id uuid.UUID) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.BrandModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return shared.NewNotFoundError("Brand not found")
		}

		var productIDs []uuid.UUID
		if err := tx.Model(&models.ProductModel{}).Where("brand_id = ?", id).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		if err := deleteProducts(tx, productIDs); err != nil {
			return err
		}
		if err := tx.Where("brand_id = ?", id).Delete(&models.DiscountBrandModel{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.BrandModel{}, "id = ?", id).Error; err != nil {
			return err
		}
		removed = int64(len(productIDs))
		return nil
	})
	return removed, err
}

func (r *GormBrandRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	return query
}

// paginate applies LIMIT/OFFSET for a 1-based page
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// Ensure GormBrandRepository implements BrandRepository
var _ catalog.BrandRepository = (*GormBrandRepository)(nil)
