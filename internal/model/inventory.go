package model

import "github.com/google/uuid"

// InventoryRow is one master roll as read from the inventory sheet, after
// unit conversion.
type InventoryRow struct {
	ID     string  `json:"id" yaml:"id"`
	Code   string  `json:"code" yaml:"code"`     // paper / label code
	Width  float64 `json:"width" yaml:"width"`   // inches
	Length float64 `json:"length" yaml:"length"` // feet
	Active bool    `json:"active" yaml:"active"`
}

// NewInventoryRow creates an active inventory row with a generated ID.
func NewInventoryRow(code string, width, length float64) InventoryRow {
	return InventoryRow{
		ID:     uuid.New().String()[:8],
		Code:   code,
		Width:  width,
		Length: length,
		Active: true,
	}
}

// OrderLine is one product line of a purchase order: Quantity units of the
// same width and length sharing Area.
type OrderLine struct {
	Paper    string  `json:"paper"`
	Width    float64 `json:"width"`
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
	Area     float64 `json:"area"`
}

// Items expands the line into Quantity unit items, each carrying an equal
// share of the line's area. lengthScale converts the order length into the
// roll length unit.
func (l OrderLine) Items(lengthScale float64) []Item {
	if l.Quantity <= 0 {
		return nil
	}
	share := l.Area / float64(l.Quantity)
	items := make([]Item, l.Quantity)
	for i := range items {
		items[i] = Item{Width: l.Width, Length: l.Length * lengthScale, Area: share}
	}
	return items
}

// PurchaseOrder groups the product lines of one customer order.
type PurchaseOrder struct {
	Number      string   `json:"number"`
	Client      string   `json:"client"`
	OrderNumber string   `json:"order_number"`
	Products    []string `json:"products"` // "paper/width/length/qty/area" codes
}
