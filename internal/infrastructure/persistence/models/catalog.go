package models

import (
	"time"

	"github.com/drobe/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BrandModel is the persistence model for the Brand aggregate root.
type BrandModel struct {
	AggregateColumns
	Name     string `gorm:"type:varchar(100);not null;uniqueIndex:idx_brands_name"`
	ImageKey string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (BrandModel) TableName() string {
	return "brands"
}

// ToDomain converts the persistence model to a domain Brand entity.
func (m *BrandModel) ToDomain() *catalog.Brand {
	b := &catalog.Brand{
		Name:     m.Name,
		ImageKey: m.ImageKey,
	}
	m.ApplyTo(&b.BaseAggregateRoot)
	return b
}

// FromDomain populates the persistence model from a domain Brand entity.
func (m *BrandModel) FromDomain(b *catalog.Brand) {
	m.SetAggregate(b.BaseAggregateRoot)
	m.Name = b.Name
	m.ImageKey = b.ImageKey
}

// BrandModelFromDomain creates a new persistence model from a domain Brand entity.
func BrandModelFromDomain(b *catalog.Brand) *BrandModel {
	m := &BrandModel{}
	m.FromDomain(b)
	return m
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateColumns
	Name        string                `gorm:"type:varchar(200);not null;index"`
	Category    string                `gorm:"type:varchar(30);not null;index"`
	BrandID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Description string                `gorm:"type:text"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID;references:ID"`
	Tags        []ProductTagModel     `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		Name:        m.Name,
		Category:    catalog.Category(m.Category),
		BrandID:     m.BrandID,
		Price:       m.Price,
		Description: m.Description,
		Tags:        make([]string, 0, len(m.Tags)),
		Variants:    make([]catalog.ProductVariant, len(m.Variants)),
	}
	m.ApplyTo(&p.BaseAggregateRoot)
	for i := range m.Variants {
		p.Variants[i] = *m.Variants[i].ToDomain()
	}
	for _, t := range m.Tags {
		p.Tags = append(p.Tags, t.Tag)
	}
	p.Tags = catalog.NormalizeTags(p.Tags)
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.SetAggregate(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Category = string(p.Category)
	m.BrandID = p.BrandID
	m.Price = p.Price
	m.Description = p.Description
	m.Variants = make([]ProductVariantModel, len(p.Variants))
	for i := range p.Variants {
		m.Variants[i] = *ProductVariantModelFromDomain(&p.Variants[i])
	}
	m.Tags = make([]ProductTagModel, len(p.Tags))
	for i, tag := range p.Tags {
		m.Tags[i] = ProductTagModel{ProductID: p.ID, Tag: tag}
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductVariantModel is the persistence model for the ProductVariant entity.
type ProductVariantModel struct {
	EntityColumns
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_variants_product_size_color,priority:1"`
	Size            string          `gorm:"type:varchar(5);not null;uniqueIndex:idx_variants_product_size_color,priority:2"`
	Color           string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_variants_product_size_color,priority:3"`
	Stock           int             `gorm:"not null;default:0"`
	PriceAdjustment decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ImageKey        string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant entity.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	return &catalog.ProductVariant{
		ID:              m.ID,
		ProductID:       m.ProductID,
		Size:            catalog.Size(m.Size),
		Color:           catalog.Color(m.Color),
		Stock:           m.Stock,
		PriceAdjustment: m.PriceAdjustment,
		ImageKey:        m.ImageKey,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ProductVariantModelFromDomain creates a new persistence model from a domain ProductVariant entity.
func ProductVariantModelFromDomain(v *catalog.ProductVariant) *ProductVariantModel {
	return &ProductVariantModel{
		EntityColumns: EntityColumns{
			ID:        v.ID,
			CreatedAt: v.CreatedAt,
			UpdatedAt: v.UpdatedAt,
		},
		ProductID:       v.ProductID,
		Size:            string(v.Size),
		Color:           string(v.Color),
		Stock:           v.Stock,
		PriceAdjustment: v.PriceAdjustment,
		ImageKey:        v.ImageKey,
	}
}

// ProductTagModel is one tag of a product.
type ProductTagModel struct {
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag       string    `gorm:"type:varchar(50);primaryKey;index"`
}

// TableName returns the table name for GORM
func (ProductTagModel) TableName() string {
	return "product_tags"
}

// DiscountModel is the persistence model for the Discount aggregate root.
// Targets live in three link tables.
type DiscountModel struct {
	AggregateColumns
	Name       string                  `gorm:"type:varchar(100);not null;index"`
	Type       string                  `gorm:"type:varchar(20);not null"`
	Value      decimal.Decimal         `gorm:"type:decimal(12,2);not null"`
	StartDate  time.Time               `gorm:"type:date;not null;index"`
	EndDate    *time.Time              `gorm:"type:date"`
	Active     bool                    `gorm:"not null;default:true;index"`
	Priority   string                  `gorm:"type:varchar(20);not null;default:'PRODUCT'"`
	Products   []DiscountProductModel  `gorm:"foreignKey:DiscountID;references:ID"`
	Brands     []DiscountBrandModel    `gorm:"foreignKey:DiscountID;references:ID"`
	Categories []DiscountCategoryModel `gorm:"foreignKey:DiscountID;references:ID"`
}

// TableName returns the table name for GORM
func (DiscountModel) TableName() string {
	return "discounts"
}

// ToDomain converts the persistence model to a domain Discount entity.
func (m *DiscountModel) ToDomain() *catalog.Discount {
	d := &catalog.Discount{
		Name:       m.Name,
		Type:       catalog.DiscountType(m.Type),
		Value:      m.Value,
		StartDate:  m.StartDate,
		EndDate:    m.EndDate,
		Active:     m.Active,
		Priority:   catalog.DiscountPriority(m.Priority),
		ProductIDs: make([]uuid.UUID, len(m.Products)),
		BrandIDs:   make([]uuid.UUID, len(m.Brands)),
		Categories: make([]catalog.Category, len(m.Categories)),
	}
	m.ApplyTo(&d.BaseAggregateRoot)
	for i, p := range m.Products {
		d.ProductIDs[i] = p.ProductID
	}
	for i, b := range m.Brands {
		d.BrandIDs[i] = b.BrandID
	}
	for i, c := range m.Categories {
		d.Categories[i] = catalog.Category(c.Category)
	}
	return d
}

// FromDomain populates the persistence model from a domain Discount entity.
func (m *DiscountModel) FromDomain(d *catalog.Discount) {
	m.SetAggregate(d.BaseAggregateRoot)
	m.Name = d.Name
	m.Type = string(d.Type)
	m.Value = d.Value
	m.StartDate = d.StartDate
	m.EndDate = d.EndDate
	m.Active = d.Active
	m.Priority = string(d.Priority)
	m.Products = make([]DiscountProductModel, len(d.ProductIDs))
	for i, id := range d.ProductIDs {
		m.Products[i] = DiscountProductModel{DiscountID: d.ID, ProductID: id}
	}
	m.Brands = make([]DiscountBrandModel, len(d.BrandIDs))
	for i, id := range d.BrandIDs {
		m.Brands[i] = DiscountBrandModel{DiscountID: d.ID, BrandID: id}
	}
	m.Categories = make([]DiscountCategoryModel, len(d.Categories))
	for i, c := range d.Categories {
		m.Categories[i] = DiscountCategoryModel{DiscountID: d.ID, Category: string(c)}
	}
}

// DiscountModelFromDomain creates a new persistence model from a domain Discount entity.
func DiscountModelFromDomain(d *catalog.Discount) *DiscountModel {
	m := &DiscountModel{}
	m.FromDomain(d)
	return m
}

// DiscountProductModel links a discount to a product it targets directly.
type DiscountProductModel struct {
	DiscountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (DiscountProductModel) TableName() string {
	return "discount_products"
}

// DiscountBrandModel links a discount to a brand whose products it targets.
type DiscountBrandModel struct {
	DiscountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	BrandID    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
}

// TableName returns the table name for GORM
func (DiscountBrandModel) TableName() string {
	return "discount_brands"
}

// DiscountCategoryModel links a discount to a category it targets.
type DiscountCategoryModel struct {
	DiscountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Category   string    `gorm:"type:varchar(30);primaryKey"`
}

// TableName returns the table name for GORM
func (DiscountCategoryModel) TableName() string {
	return "discount_categories"
}

// ProductReviewModel is the persistence model for the ProductReview entity.
type ProductReviewModel struct {
	EntityColumns
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	CustomerID uuid.UUID  `gorm:"type:uuid;not null;index"`
	VariantID  *uuid.UUID `gorm:"type:uuid"`
	Rating     int        `gorm:"not null;default:5"`
	Comment    string     `gorm:"type:text"`
	Approved   bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ProductReviewModel) TableName() string {
	return "product_reviews"
}

// ToDomain converts the persistence model to a domain ProductReview entity.
func (m *ProductReviewModel) ToDomain() *catalog.ProductReview {
	return &catalog.ProductReview{
		BaseEntity: m.EntityColumns.Entity(),
		ProductID:  m.ProductID,
		CustomerID: m.CustomerID,
		VariantID:  m.VariantID,
		Rating:     m.Rating,
		Comment:    m.Comment,
		Approved:   m.Approved,
	}
}

// ProductReviewModelFromDomain creates a new persistence model from a domain ProductReview entity.
func ProductReviewModelFromDomain(r *catalog.ProductReview) *ProductReviewModel {
	m := &ProductReviewModel{
		ProductID:  r.ProductID,
		CustomerID: r.CustomerID,
		VariantID:  r.VariantID,
		Rating:     r.Rating,
		Comment:    r.Comment,
		Approved:   r.Approved,
	}
	m.SetEntity(r.BaseEntity)
	return m
}
