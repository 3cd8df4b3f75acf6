package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

type Product struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	TracksQuantity bool            `json:"tracksQuantity"`
	Status         string          `json:"status"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ProductSnapshot is a point-in-time view of the catalog fields checkout
// depends on. Prices recorded on order lines come from here, never from the
// client.
type ProductSnapshot struct {
	ProductID         string
	Name              string
	UnitPrice         decimal.Decimal
	AvailableQuantity int
	TracksQuantity    bool
	IsPurchasable     bool
}

// Snapshot derives the checkout view from the live product row.
func (p Product) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		ProductID:         p.ID,
		Name:              p.Name,
		UnitPrice:         p.Price,
		AvailableQuantity: p.Quantity,
		TracksQuantity:    p.TracksQuantity,
		IsPurchasable:     p.Status == ProductStatusActive && p.IsActive,
	}
}
