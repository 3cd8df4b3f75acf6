// Package pricing computes checkout totals from frozen snapshot prices. It is
// pure: identical inputs always produce identical outputs, so historical order
// totals stay auditable.
package pricing

import "github.com/shopspring/decimal"

// Line is one priced cart entry.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Totals carries every derived monetary field of an order. Each field is
// rounded to 2 decimal places (half-up) at derivation, not just the total.
type Totals struct {
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingAmount decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

// Calculator derives totals from line items using fixed rates. Construct with
// NewCalculator for the storefront defaults.
type Calculator struct {
	taxRate               decimal.Decimal
	freeShippingThreshold decimal.Decimal
	flatShippingFee       decimal.Decimal
}

const (
	defaultTaxRate               = "0.19"
	defaultFreeShippingThreshold = "50000"
	defaultFlatShippingFee       = "5000"
)

func NewCalculator() *Calculator {
	return &Calculator{
		taxRate:               decimal.RequireFromString(defaultTaxRate),
		freeShippingThreshold: decimal.RequireFromString(defaultFreeShippingThreshold),
		flatShippingFee:       decimal.RequireFromString(defaultFlatShippingFee),
	}
}

// NewCalculatorWithRates is the test/config hook for non-default rates.
func NewCalculatorWithRates(taxRate, freeShippingThreshold, flatShippingFee decimal.Decimal) *Calculator {
	return &Calculator{
		taxRate:               taxRate,
		freeShippingThreshold: freeShippingThreshold,
		flatShippingFee:       flatShippingFee,
	}
}

// Quote derives subtotal, tax, shipping and grand total for the given lines.
// Shipping is waived once the subtotal reaches the free-shipping threshold.
// The discount is subtracted from the grand total only; it never reduces the
// tax base.
func (c *Calculator) Quote(lines []Line, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(c.taxRate).Round(2)

	shipping := c.flatShippingFee
	if subtotal.GreaterThanOrEqual(c.freeShippingThreshold) {
		shipping = decimal.Zero
	}
	shipping = shipping.Round(2)

	discount = discount.Round(2)
	total := subtotal.Add(tax).Add(shipping).Sub(discount).Round(2)

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		ShippingAmount: shipping,
		DiscountAmount: discount,
		TotalAmount:    total,
	}
}
