package catalog

import (
	"strings"
	"time"

	"github.com/drobe/backend/internal/domain/shared"
)

// Brand owns products; deleting a brand deletes its products
type Brand struct {
	shared.BaseAggregateRoot
	Name     string
	ImageKey string
}

// NewBrand creates a new brand
func NewBrand(name string) (*Brand, error) {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return nil, err
	}
	return &Brand{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
	}, nil
}

// Rename changes the brand name
func (b *Brand) Rename(name string) error {
	name = strings.TrimSpace(name)
	if err := validateBrandName(name); err != nil {
		return err
	}
	b.Name = name
	b.Revise()
	return nil
}

// SetImage records the object key of the brand logo
func (b *Brand) SetImage(key string) {
	b.ImageKey = key
	b.UpdatedAt = time.Now()
}

func validateBrandName(name string) error {
	if name == "" {
		return invalid("Brand name cannot be empty")
	}
	if len(name) > 100 {
		return invalid("Brand name cannot exceed 100 characters")
	}
	return nil
}
