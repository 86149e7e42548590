package trade

import (
	"github.com/drobe/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TargetKind tells whether a line points at a product or at a variant
type TargetKind string

const (
	TargetKindProduct TargetKind = "product"
	TargetKindVariant TargetKind = "variant"
)

// LineTarget is the product-or-variant a cart, order or saved line refers
// to. The zero value is invalid; build one with ProductTarget or VariantTarget.
type LineTarget struct {
	kind TargetKind
	id   uuid.UUID
}

// ProductTarget points a line at a bare product
func ProductTarget(productID uuid.UUID) LineTarget {
	return LineTarget{kind: TargetKindProduct, id: productID}
}

// VariantTarget points a line at a product variant
func VariantTarget(variantID uuid.UUID) LineTarget {
	return LineTarget{kind: TargetKindVariant, id: variantID}
}

// TargetFromRefs rebuilds a target from the two nullable storage columns.
// Exactly one must be set.
func TargetFromRefs(productID, variantID *uuid.UUID) (LineTarget, error) {
	hasProduct := productID != nil && *productID != uuid.Nil
	hasVariant := variantID != nil && *variantID != uuid.Nil
	switch {
	case hasProduct && hasVariant:
		return LineTarget{}, shared.NewConsistencyError("Line references both a product and a variant")
	case hasProduct:
		return ProductTarget(*productID), nil
	case hasVariant:
		return VariantTarget(*variantID), nil
	}
	return LineTarget{}, shared.NewConsistencyError("Line references neither a product nor a variant")
}

// Refs splits the target into the two nullable storage columns
func (t LineTarget) Refs() (productID, variantID *uuid.UUID) {
	id := t.id
	switch t.kind {
	case TargetKindProduct:
		return &id, nil
	case TargetKindVariant:
		return nil, &id
	}
	return nil, nil
}

// Validate fails for the zero target or a nil ID
func (t LineTarget) Validate() error {
	if t.kind != TargetKindProduct && t.kind != TargetKindVariant {
		return shared.NewConsistencyError("Line must reference exactly one of product or variant")
	}
	if t.id == uuid.Nil {
		return shared.NewConsistencyError("Line target ID cannot be empty")
	}
	return nil
}

// Kind returns the target kind
func (t LineTarget) Kind() TargetKind {
	return t.kind
}

// ID returns the product or variant ID
func (t LineTarget) ID() uuid.UUID {
	return t.id
}

// IsVariant reports whether the target is a variant
func (t LineTarget) IsVariant() bool {
	return t.kind == TargetKindVariant
}

// String renders "<kind>:<id>"
func (t LineTarget) String() string {
	return string(t.kind) + ":" + t.id.String()
}
