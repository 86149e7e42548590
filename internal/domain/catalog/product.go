package catalog

import (
	"sort"
	"strings"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root of the catalog. It owns its variants.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Category    Category
	BrandID     uuid.UUID
	Price       decimal.Decimal
	Description string
	Tags        []string
	Variants    []ProductVariant
}

// NewProduct creates a new product
func NewProduct(name string, category Category, brandID uuid.UUID, price decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, invalid("Unknown category: " + string(category))
	}
	if brandID == uuid.Nil {
		return nil, invalid("Brand is required")
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Category:          category,
		BrandID:           brandID,
		Price:             price,
		Tags:              []string{},
		Variants:          []ProductVariant{},
	}
	p.RecordEvent(NewProductChangedEvent(p, ProductActionCreated))
	return p, nil
}

// Update replaces the descriptive fields of the product
func (p *Product) Update(name, description string, category Category, brandID uuid.UUID) error {
	name = strings.TrimSpace(name)
	if err := validateProductName(name); err != nil {
		return err
	}
	if !category.IsValid() {
		return invalid("Unknown category: " + string(category))
	}
	if brandID == uuid.Nil {
		return invalid("Brand is required")
	}

	p.Name = name
	p.Description = description
	p.Category = category
	p.BrandID = brandID
	p.Revise()
	p.RecordEvent(NewProductChangedEvent(p, ProductActionUpdated))
	return nil
}

// SetPrice changes the base price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	p.Price = price
	p.Revise()
	p.RecordEvent(NewProductChangedEvent(p, ProductActionUpdated))
	return nil
}

// SetTags replaces the tag set. Tags are trimmed, lower-cased and de-duplicated.
func (p *Product) SetTags(tags []string) {
	p.Tags = NormalizeTags(tags)
	p.Revise()
}

// AddVariant adds a size/color combination. The pair must be unique per product.
func (p *Product) AddVariant(size Size, color Color, stock int, adjustment decimal.Decimal) (*ProductVariant, error) {
	for _, v := range p.Variants {
		if v.Size == size && v.Color == color {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Variant with this size and color already exists")
		}
	}
	v, err := newProductVariant(p.ID, size, color, stock, adjustment)
	if err != nil {
		return nil, err
	}
	p.Variants = append(p.Variants, *v)
	p.Revise()
	return &p.Variants[len(p.Variants)-1], nil
}

// Variant returns the variant with the given ID
func (p *Product) Variant(id uuid.UUID) (*ProductVariant, error) {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i], nil
		}
	}
	return nil, shared.NewNotFoundError("Variant not found")
}

// RemoveVariant drops the variant with the given ID
func (p *Product) RemoveVariant(id uuid.UUID) error {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			p.Variants = append(p.Variants[:i], p.Variants[i+1:]...)
			p.Revise()
			return nil
		}
	}
	return shared.NewNotFoundError("Variant not found")
}

// HasTag reports whether the product carries tag (case-insensitive)
func (p *Product) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags trims, lower-cases, drops empties and sorts tags
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func validateProductName(name string) error {
	if name == "" {
		return invalid("Product name cannot be empty")
	}
	if len(name) > 200 {
		return invalid("Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return invalid("Price cannot be negative")
	}
	return nil
}
