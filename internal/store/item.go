package store

import (
	"regexp"
	"strings"

	"grocery-manager/internal/dto"

	"github.com/shopspring/decimal"
)

// Item is a committed grocery item as held in the snapshot. Quantity and
// Price keep the text the user entered.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Notes    string `json:"notes"`
	UserID   string `json:"userId,omitempty"`
}

func newItem(record dto.ItemRecord) Item {
	return Item{
		ID:       record.ID.String(),
		Name:     record.Name,
		Quantity: record.Quantity.String(),
		Price:    record.Price.String(),
		Notes:    record.Notes,
		UserID:   record.UserID,
	}
}

// Draft returns the item's fields as an editable draft
func (i Item) Draft() Draft {
	return Draft{Name: i.Name, Quantity: i.Quantity, Price: i.Price, Notes: i.Notes}
}

// plainAmount is digits with an optional fraction. Signs and exponents are
// not amounts.
var plainAmount = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// parseAmount reads user text as a non-negative decimal. Anything else counts
// as zero.
func parseAmount(text string) decimal.Decimal {
	text = strings.TrimSpace(text)
	if !plainAmount.MatchString(text) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func lineTotal(item Item) decimal.Decimal {
	return parseAmount(item.Quantity).Mul(parseAmount(item.Price))
}

// ItemTotal returns quantity x price for one item, rounded to two places
func ItemTotal(item Item) string {
	return lineTotal(item).StringFixed(2)
}

// ComputeTotal sums quantity x price over items and rounds the result to two
// places. It has no side effects.
func ComputeTotal(items []Item) string {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(lineTotal(item))
	}
	return sum.StringFixed(2)
}
