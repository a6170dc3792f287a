package store

import (
	"fmt"
	"strings"

	"grocery-manager/internal/models"
)

// Snapshot is a point-in-time copy of the store state. Modifying it does not
// affect the store.
type Snapshot struct {
	Items   map[models.Category][]Item
	Titles  map[models.Category]string
	Loading bool
	Error   string
}

// Total returns the rounded total for the category in this snapshot
func (s Snapshot) Total(category models.Category) string {
	return ComputeTotal(s.Items[category])
}

// ShareText renders a category as plain text for sharing
func (s Snapshot) ShareText(category models.Category) string {
	var b strings.Builder
	b.WriteString("Grocery List - ")
	b.WriteString(s.Titles[category])

	for _, item := range s.Items[category] {
		fmt.Fprintf(&b, "\nName: %s, Quantity: %s, Price: R%s, Notes: %s", item.Name, item.Quantity, item.Price, item.Notes)
	}

	return b.String()
}

func emptyItems() map[models.Category][]Item {
	items := make(map[models.Category][]Item, len(models.AllCategories()))
	for _, category := range models.AllCategories() {
		items[category] = []Item{}
	}
	return items
}

func defaultTitles() map[models.Category]string {
	titles := make(map[models.Category]string, len(models.AllCategories()))
	for _, category := range models.AllCategories() {
		titles[category] = category.DefaultTitle()
	}
	return titles
}

func copyItems(src map[models.Category][]Item) map[models.Category][]Item {
	dst := make(map[models.Category][]Item, len(src))
	for category, items := range src {
		dst[category] = append([]Item(nil), items...)
		if dst[category] == nil {
			dst[category] = []Item{}
		}
	}
	return dst
}

func copyTitles(src map[models.Category]string) map[models.Category]string {
	dst := make(map[models.Category]string, len(src))
	for category, title := range src {
		dst[category] = title
	}
	return dst
}
