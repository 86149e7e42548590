package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Size of a product variant
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
)

// IsValid checks if the size is a known value
func (s Size) IsValid() bool {
	switch s {
	case SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL:
		return true
	}
	return false
}

// Color of a product variant
type Color string

const (
	ColorRed    Color = "RED"
	ColorBlue   Color = "BLUE"
	ColorGreen  Color = "GREEN"
	ColorBlack  Color = "BLACK"
	ColorWhite  Color = "WHITE"
	ColorYellow Color = "YELLOW"
	ColorOrange Color = "ORANGE"
	ColorPink   Color = "PINK"
	ColorPurple Color = "PURPLE"
	ColorBrown  Color = "BROWN"
	ColorGrey   Color = "GREY"
	ColorBeige  Color = "BEIGE"
	ColorNavy   Color = "NAVY"
	ColorMaroon Color = "MAROON"
	ColorOlive  Color = "OLIVE"
	ColorTeal   Color = "TEAL"
)

// IsValid checks if the color is a known value
func (c Color) IsValid() bool {
	switch c {
	case ColorRed, ColorBlue, ColorGreen, ColorBlack, ColorWhite, ColorYellow,
		ColorOrange, ColorPink, ColorPurple, ColorBrown, ColorGrey, ColorBeige,
		ColorNavy, ColorMaroon, ColorOlive, ColorTeal:
		return true
	}
	return false
}

// ParseSize accepts the enum value in any case
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToUpper(strings.TrimSpace(s)))
	if !size.IsValid() {
		return "", invalid("Unknown size: " + s)
	}
	return size, nil
}

// ParseColor accepts the enum value in any case
func ParseColor(s string) (Color, error) {
	color := Color(strings.ToUpper(strings.TrimSpace(s)))
	if !color.IsValid() {
		return "", invalid("Unknown color: " + s)
	}
	return color, nil
}

// ProductVariant is a size/color combination of a product with its own stock.
// Its price is the parent's discounted price plus PriceAdjustment.
type ProductVariant struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	Size            Size
	Color           Color
	Stock           int
	PriceAdjustment decimal.Decimal
	ImageKey        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func newProductVariant(productID uuid.UUID, size Size, color Color, stock int, adjustment decimal.Decimal) (*ProductVariant, error) {
	if !size.IsValid() {
		return nil, invalid(fmt.Sprintf("Unknown size: %s", size))
	}
	if !color.IsValid() {
		return nil, invalid(fmt.Sprintf("Unknown color: %s", color))
	}
	if stock < 0 {
		return nil, invalid("Stock cannot be negative")
	}
	now := time.Now()
	return &ProductVariant{
		ID:              uuid.New(),
		ProductID:       productID,
		Size:            size,
		Color:           color,
		Stock:           stock,
		PriceAdjustment: adjustment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Label renders "<product> - <size> - <color>"
func (v *ProductVariant) Label(productName string) string {
	return fmt.Sprintf("%s - %s - %s", productName, v.Size, v.Color)
}

// SetStock replaces the stock level
func (v *ProductVariant) SetStock(stock int) error {
	if stock < 0 {
		return invalid("Stock cannot be negative")
	}
	v.Stock = stock
	v.UpdatedAt = time.Now()
	return nil
}

// SetPriceAdjustment replaces the additive price adjustment
func (v *ProductVariant) SetPriceAdjustment(adjustment decimal.Decimal) {
	v.PriceAdjustment = adjustment
	v.UpdatedAt = time.Now()
}

// SetImage records the object storage key of the variant image
func (v *ProductVariant) SetImage(key string) {
	v.ImageKey = key
	v.UpdatedAt = time.Now()
}
