package catalog

import "strings"

// Category is the single department a product is listed under
type Category string

const (
	CategoryMens        Category = "MENS"
	CategoryWomens      Category = "WOMENS"
	CategoryKids        Category = "KIDS"
	CategoryShoes       Category = "SHOES"
	CategoryAccessories Category = "ACCESSORIES"
	CategoryActivewear  Category = "ACTIVEWEAR"
	CategoryOuterwear   Category = "OUTERWEAR"
)

var categoryLabels = map[Category]string{
	CategoryMens:        "Men's Clothing",
	CategoryWomens:      "Women's Clothing",
	CategoryKids:        "Kids' Clothing",
	CategoryShoes:       "Shoes",
	CategoryAccessories: "Accessories",
	CategoryActivewear:  "Activewear",
	CategoryOuterwear:   "Outerwear",
}

// AllCategories lists categories in display order
func AllCategories() []Category {
	return []Category{
		CategoryMens, CategoryWomens, CategoryKids, CategoryShoes,
		CategoryAccessories, CategoryActivewear, CategoryOuterwear,
	}
}

// IsValid checks if the category is one of the known values
func (c Category) IsValid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human readable name
func (c Category) Label() string {
	return categoryLabels[c]
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts the enum value in any case
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", invalid("Unknown category: " + s)
	}
	return c, nil
}
