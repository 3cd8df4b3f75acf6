package pricing

import (
	"context"

	"github.com/shopspring/decimal"
)

// DiscountResolver turns a coupon code into a discount amount for a given
// subtotal. The storefront currently ships without a coupon system, so the
// only implementation resolves every code to zero; checkout still accepts and
// records the code so a real resolver can be attached without touching the
// calculator.
type DiscountResolver interface {
	Resolve(ctx context.Context, couponCode string, subtotal decimal.Decimal) (decimal.Decimal, error)
}

// NoDiscount resolves every coupon to a zero discount.
type NoDiscount struct{}

func (NoDiscount) Resolve(_ context.Context, _ string, _ decimal.Decimal) (decimal.Decimal, error) {
	return decimal.Zero, nil
}
