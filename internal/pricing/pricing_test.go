package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestQuote_BelowFreeShippingThreshold(t *testing.T) {
	calc := NewCalculator()

	totals := calc.Quote([]Line{
		{UnitPrice: d("1000"), Quantity: 2},
	}, decimal.Zero)

	if !totals.Subtotal.Equal(d("2000")) {
		t.Fatalf("subtotal = %s, want 2000", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(d("380")) {
		t.Fatalf("tax = %s, want 380", totals.TaxAmount)
	}
	if !totals.ShippingAmount.Equal(d("5000")) {
		t.Fatalf("shipping = %s, want 5000", totals.ShippingAmount)
	}
	if !totals.TotalAmount.Equal(d("7380")) {
		t.Fatalf("total = %s, want 7380", totals.TotalAmount)
	}
}

func TestQuote_FreeShippingAtThreshold(t *testing.T) {
	calc := NewCalculator()

	totals := calc.Quote([]Line{
		{UnitPrice: d("20000"), Quantity: 3},
	}, decimal.Zero)

	if !totals.Subtotal.Equal(d("60000")) {
		t.Fatalf("subtotal = %s, want 60000", totals.Subtotal)
	}
	if !totals.ShippingAmount.Equal(decimal.Zero) {
		t.Fatalf("shipping = %s, want 0", totals.ShippingAmount)
	}
	if !totals.TaxAmount.Equal(d("11400")) {
		t.Fatalf("tax = %s, want 11400", totals.TaxAmount)
	}
	if !totals.TotalAmount.Equal(d("71400")) {
		t.Fatalf("total = %s, want 71400", totals.TotalAmount)
	}
}

func TestQuote_RoundsHalfUp(t *testing.T) {
	calc := NewCalculator()

	// 3 * 33.335 = 100.005, rounds to 100.01; tax 19.0019 rounds to 19.00.
	totals := calc.Quote([]Line{
		{UnitPrice: d("33.335"), Quantity: 3},
	}, decimal.Zero)

	if !totals.Subtotal.Equal(d("100.01")) {
		t.Fatalf("subtotal = %s, want 100.01", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(d("19.00")) {
		t.Fatalf("tax = %s, want 19.00", totals.TaxAmount)
	}
}

func TestQuote_DiscountReducesTotalOnly(t *testing.T) {
	calc := NewCalculator()

	discounted := calc.Quote([]Line{{UnitPrice: d("1000"), Quantity: 1}}, d("100"))
	plain := calc.Quote([]Line{{UnitPrice: d("1000"), Quantity: 1}}, decimal.Zero)

	if !discounted.TaxAmount.Equal(plain.TaxAmount) {
		t.Fatalf("discount changed tax base: %s vs %s", discounted.TaxAmount, plain.TaxAmount)
	}
	if !discounted.TotalAmount.Equal(plain.TotalAmount.Sub(d("100"))) {
		t.Fatalf("total = %s, want %s", discounted.TotalAmount, plain.TotalAmount.Sub(d("100")))
	}
	if !discounted.DiscountAmount.Equal(d("100")) {
		t.Fatalf("discount = %s, want 100", discounted.DiscountAmount)
	}
}

func TestQuote_EmptyLines(t *testing.T) {
	calc := NewCalculator()

	totals := calc.Quote(nil, decimal.Zero)

	if !totals.Subtotal.Equal(decimal.Zero) {
		t.Fatalf("subtotal = %s, want 0", totals.Subtotal)
	}
	if !totals.TotalAmount.Equal(d("5000")) {
		t.Fatalf("total = %s, want 5000 (shipping plus zero tax)", totals.TotalAmount)
	}
}

func TestQuote_Deterministic(t *testing.T) {
	calc := NewCalculator()
	lines := []Line{
		{UnitPrice: d("19.99"), Quantity: 3},
		{UnitPrice: d("4.25"), Quantity: 7},
	}

	first := calc.Quote(lines, d("2.50"))
	for i := 0; i < 10; i++ {
		again := calc.Quote(lines, d("2.50"))
		if !again.TotalAmount.Equal(first.TotalAmount) || !again.TaxAmount.Equal(first.TaxAmount) {
			t.Fatalf("quote %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestQuote_CustomRates(t *testing.T) {
	calc := NewCalculatorWithRates(d("0.10"), d("100"), d("10"))

	totals := calc.Quote([]Line{{UnitPrice: d("50"), Quantity: 1}}, decimal.Zero)

	if !totals.TaxAmount.Equal(d("5")) {
		t.Fatalf("tax = %s, want 5", totals.TaxAmount)
	}
	if !totals.ShippingAmount.Equal(d("10")) {
		t.Fatalf("shipping = %s, want 10", totals.ShippingAmount)
	}
}
