package models

import (
	"strings"
)

// Category identifies one of the fixed grocery groupings. The value is the
// wire/resource key used by the list backend.
type Category string

// Grocery categories
const (
	CategoryProduce   Category = "fruitVeg"
	CategoryMeat      Category = "meat"
	CategoryBeverages Category = "beverages"
	CategoryHousehold Category = "bathing"
)

// ResourceTitles is the collection holding user-edited category titles
const ResourceTitles = "titles"

// categoryOrder fixes iteration order for every caller. Adding a category is
// a one-line change here plus its default title.
var categoryOrder = []Category{
	CategoryProduce,
	CategoryMeat,
	CategoryBeverages,
	CategoryHousehold,
}

var defaultTitles = map[Category]string{
	CategoryProduce:   "Fruit & Veg",
	CategoryMeat:      "Meat",
	CategoryBeverages: "Beverages",
	CategoryHousehold: "Bathing",
}

var categoryAliases = map[string]Category{
	"produce":   CategoryProduce,
	"meat":      CategoryMeat,
	"beverages": CategoryBeverages,
	"household": CategoryHousehold,
}

// AllCategories returns all valid categories in display order
func AllCategories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder)
	return out
}

// IsValid reports whether c is one of the fixed categories
func (c Category) IsValid() bool {
	_, ok := defaultTitles[c]
	return ok
}

// DefaultTitle returns the canonical label for the category
func (c Category) DefaultTitle() string {
	return defaultTitles[c]
}

// String returns the resource key
func (c Category) String() string {
	return string(c)
}

// ParseCategory accepts either the resource key ("fruitVeg") or a friendly
// alias ("produce", "household"). Matching is case-insensitive.
func ParseCategory(s string) (Category, bool) {
	key := strings.TrimSpace(s)
	for _, c := range categoryOrder {
		if strings.EqualFold(key, string(c)) {
			return c, true
		}
	}
	if c, ok := categoryAliases[strings.ToLower(key)]; ok {
		return c, true
	}
	return "", false
}

// IsValidResource reports whether name addresses one of the backend collections
func IsValidResource(name string) bool {
	return name == ResourceTitles || Category(name).IsValid()
}
