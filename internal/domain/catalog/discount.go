package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscountType decides how Value is interpreted
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// IsValid checks if the type is a known value
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// DiscountPriority is informational. It orders discounts for display and
// does not decide which discount wins; every applicable discount is applied.
type DiscountPriority string

const (
	DiscountPriorityProduct  DiscountPriority = "PRODUCT"
	DiscountPriorityBrand    DiscountPriority = "BRAND"
	DiscountPriorityCategory DiscountPriority = "CATEGORY"
)

// IsValid checks if the priority is a known value
func (p DiscountPriority) IsValid() bool {
	switch p {
	case DiscountPriorityProduct, DiscountPriorityBrand, DiscountPriorityCategory:
		return true
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// Discount reduces the price of the products it targets while active.
// A product is targeted when it is listed directly, when its brand is
// listed, or when its category is listed.
type Discount struct {
	shared.BaseAggregateRoot
	Name       string
	Type       DiscountType
	Value      decimal.Decimal
	StartDate  time.Time
	EndDate    *time.Time
	Active     bool
	Priority   DiscountPriority
	ProductIDs []uuid.UUID
	BrandIDs   []uuid.UUID
	Categories []Category
}

// DiscountTargets lists what a discount applies to
type DiscountTargets struct {
	ProductIDs []uuid.UUID
	BrandIDs   []uuid.UUID
	Categories []Category
}

// NewDiscount creates an active discount with PRODUCT priority and no targets
func NewDiscount(name string, discountType DiscountType, value decimal.Decimal, startDate time.Time, endDate *time.Time) (*Discount, error) {
	d := &Discount{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Active:            true,
		Priority:          DiscountPriorityProduct,
		ProductIDs:        []uuid.UUID{},
		BrandIDs:          []uuid.UUID{},
		Categories:        []Category{},
	}
	if err := d.setTerms(name, discountType, value, startDate, endDate); err != nil {
		return nil, err
	}
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionCreated))
	return d, nil
}

// Update replaces the commercial terms of the discount
func (d *Discount) Update(name string, discountType DiscountType, value decimal.Decimal, startDate time.Time, endDate *time.Time) error {
	if err := d.setTerms(name, discountType, value, startDate, endDate); err != nil {
		return err
	}
	d.Revise()
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionUpdated))
	return nil
}

func (d *Discount) setTerms(name string, discountType DiscountType, value decimal.Decimal, startDate time.Time, endDate *time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("Discount name cannot be empty")
	}
	if len(name) > 100 {
		return invalid("Discount name cannot exceed 100 characters")
	}
	if !discountType.IsValid() {
		return invalid("Discount type must be PERCENTAGE or FIXED")
	}
	if value.IsNegative() {
		return invalid("Discount value cannot be negative")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(hundred) {
		return invalid("Percentage discount cannot exceed 100")
	}
	if startDate.IsZero() {
		return invalid("Discount start date is required")
	}
	if endDate != nil && dateKey(*endDate) < dateKey(startDate) {
		return invalid("Discount end date cannot be before its start date")
	}
	d.Name = name
	d.Type = discountType
	d.Value = value
	d.StartDate = startDate
	d.EndDate = endDate
	return nil
}

// SetPriority changes the display priority
func (d *Discount) SetPriority(priority DiscountPriority) error {
	if !priority.IsValid() {
		return invalid("Discount priority must be PRODUCT, BRAND or CATEGORY")
	}
	d.Priority = priority
	d.Revise()
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionUpdated))
	return nil
}

// SetTargets replaces the products, brands and categories the discount covers
func (d *Discount) SetTargets(targets DiscountTargets) error {
	for _, c := range targets.Categories {
		if !c.IsValid() {
			return invalid("Unknown category: " + string(c))
		}
	}
	d.ProductIDs = uniqueIDs(targets.ProductIDs)
	d.BrandIDs = uniqueIDs(targets.BrandIDs)
	d.Categories = uniqueCategories(targets.Categories)
	d.Revise()
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionUpdated))
	return nil
}

// Activate turns the discount on
func (d *Discount) Activate() {
	if d.Active {
		return
	}
	d.Active = true
	d.Revise()
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionActivated))
}

// Deactivate turns the discount off
func (d *Discount) Deactivate() {
	if !d.Active {
		return
	}
	d.Active = false
	d.Revise()
	d.RecordEvent(NewDiscountChangedEvent(d, DiscountActionDeactivated))
}

// IsActive reports whether the flag is set and asOf falls inside the
// date window. Both ends are inclusive and compared as calendar dates.
func (d *Discount) IsActive(asOf time.Time) bool {
	if !d.Active {
		return false
	}
	today := dateKey(asOf)
	if dateKey(d.StartDate) > today {
		return false
	}
	if d.EndDate != nil && today > dateKey(*d.EndDate) {
		return false
	}
	return true
}

// AppliesTo reports whether the discount is active and targets the product
func (d *Discount) AppliesTo(p *Product, asOf time.Time) bool {
	if p == nil || !d.IsActive(asOf) {
		return false
	}
	return d.Targets(p)
}

// Targets reports whether the product, its brand or its category is listed
func (d *Discount) Targets(p *Product) bool {
	for _, id := range d.ProductIDs {
		if id == p.ID {
			return true
		}
	}
	for _, id := range d.BrandIDs {
		if id == p.BrandID {
			return true
		}
	}
	for _, c := range d.Categories {
		if c == p.Category {
			return true
		}
	}
	return false
}

// ApplyTo returns price reduced by this discount. It does not floor the
// result; callers floor once after applying every discount.
func (d *Discount) ApplyTo(price decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case DiscountTypePercentage:
		return price.Sub(price.Mul(d.Value).Div(hundred))
	case DiscountTypeFixed:
		return price.Sub(d.Value)
	}
	return price
}

// SortDiscounts orders discounts by priority descending, then by name
func SortDiscounts(discounts []Discount) {
	sort.SliceStable(discounts, func(i, j int) bool {
		if discounts[i].Priority != discounts[j].Priority {
			return discounts[i].Priority > discounts[j].Priority
		}
		return discounts[i].Name < discounts[j].Name
	})
}

// dateKey collapses a timestamp to yyyymmdd in its own location
func dateKey(t time.Time) int {
	y, m, day := t.Date()
	return y*10000 + int(m)*100 + day
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func uniqueCategories(categories []Category) []Category {
	seen := make(map[Category]struct{}, len(categories))
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
