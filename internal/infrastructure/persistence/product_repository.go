package persistence

import (
	"context"
	"strings"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func withProductChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Tags")
}

// FindByID finds a product by its ID, with variants and tags
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := withProductChildren(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "Product not found")
	}
	return model.ToDomain(), nil
}

// FindByIDs finds multiple products by their IDs. Missing IDs are skipped.
func (r *GormProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}

	var rows []models.ProductModel
	if err := withProductChildren(r.db.WithContext(ctx)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindVariantByID finds a variant together with its parent product
func (r *GormProductRepository) FindVariantByID(ctx context.Context, variantID uuid.UUID) (*catalog.Product, *catalog.ProductVariant, error) {
	var variant models.ProductVariantModel
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, nil, notFoundOr(err, "Variant not found")
	}
	product, err := r.FindByID(ctx, variant.ProductID)
	if err != nil {
		return nil, nil, err
	}
	v, err := product.Variant(variantID)
	if err != nil {
		return nil, nil, err
	}
	return product, v, nil
}

// List returns one page of products matching the filter and the total count
func (r *GormProductRepository) List(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	var total int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	var rows []models.ProductModel
	query := r.applyFilter(withProductChildren(r.db.WithContext(ctx)), filter)
	if err := paginate(query, filter.Page, pageSize).
		Order("products.created_at DESC, products.name ASC").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(rows), total, nil
}

// Save creates or updates a product and replaces its variants and tags.
// Variants that disappeared are deleted unless an order refers to them.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uuid.UUID
		if err := tx.Model(&models.ProductVariantModel{}).
			Where("product_id = ?", product.ID).
			Pluck("id", &existing).Error; err != nil {
			return err
		}

		keep := make(map[uuid.UUID]struct{}, len(product.Variants))
		for _, v := range product.Variants {
			keep[v.ID] = struct{}{}
		}
		var removed []uuid.UUID
		for _, id := range existing {
			if _, ok := keep[id]; !ok {
				removed = append(removed, id)
			}
		}
		if err := deleteVariants(tx, removed); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateWriteError(err, "Product")
		}
		for i := range model.Variants {
			if err := tx.Save(&model.Variants[i]).Error; err != nil {
				return translateWriteError(err, "Variant with this size and color")
			}
		}

		if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductTagModel{}).Error; err != nil {
			return err
		}
		if len(model.Tags) > 0 {
			if err := tx.Create(&model.Tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a product with its variants. Products that appear on an
// order cannot be deleted.
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.ProductModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return shared.NewNotFoundError("Product not found")
		}
		return deleteProducts(tx, []uuid.UUID{id})
	})
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR EXISTS (SELECT 1 FROM product_tags pt WHERE pt.product_id = products.id AND pt.tag LIKE ?)",
			pattern, pattern, pattern,
		)
	}
	if filter.Category != nil {
		query = query.Where("products.category = ?", string(*filter.Category))
	}
	if filter.BrandID != nil {
		query = query.Where("products.brand_id = ?", *filter.BrandID)
	}
	if filter.MinPrice != nil {
		query = query.Where("products.price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filter.MaxPrice)
	}
	return query
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

// deleteProducts removes products with everything that hangs off them.
// It refuses when any order line points at one of the products or their variants.
func deleteProducts(tx *gorm.DB, productIDs []uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}

	var variantIDs []uuid.UUID
	if err := tx.Model(&models.ProductVariantModel{}).
		Where("product_id IN ?", productIDs).
		Pluck("id", &variantIDs).Error; err != nil {
		return err
	}

	var ordered int64
	if err := tx.Model(&models.OrderItemModel{}).
		Where("product_id IN ? OR variant_id IN ?", productIDs, nonEmpty(variantIDs)).
		Count(&ordered).Error; err != nil {
		return err
	}
	if ordered > 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Product has been ordered and cannot be deleted")
	}

	lineFilter := "product_id IN ? OR variant_id IN ?"
	for _, m := range []any{&models.CartItemModel{}, &models.SavedItemModel{}} {
		if err := tx.Where(lineFilter, productIDs, nonEmpty(variantIDs)).Delete(m).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductReviewModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&models.DiscountProductModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductTagModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN ?", productIDs).Delete(&models.ProductVariantModel{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", productIDs).Delete(&models.ProductModel{}).Error
}

// deleteVariants removes variants and the cart, wishlist and review lines
// that point at them. Ordered variants are kept and reported as INVALID_STATE.
func deleteVariants(tx *gorm.DB, variantIDs []uuid.UUID) error {
	if len(variantIDs) == 0 {
		return nil
	}

	var ordered int64
	if err := tx.Model(&models.OrderItemModel{}).
		Where("variant_id IN ?", variantIDs).
		Count(&ordered).Error; err != nil {
		return err
	}
	if ordered > 0 {
		return shared.NewDomainError(shared.CodeInvalidState, "Variant has been ordered and cannot be removed")
	}

	for _, m := range []any{&models.CartItemModel{}, &models.SavedItemModel{}, &models.ProductReviewModel{}} {
		if err := tx.Where("variant_id IN ?", variantIDs).Delete(m).Error; err != nil {
			return err
		}
	}
	return tx.Where("id IN ?", variantIDs).Delete(&models.ProductVariantModel{}).Error
}

// nonEmpty keeps "IN ?" valid on every dialect when ids is empty
func nonEmpty(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return []uuid.UUID{uuid.Nil}
	}
	return ids
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
