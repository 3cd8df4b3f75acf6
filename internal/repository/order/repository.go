package order

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository/address"

	"github.com/shopspring/decimal"
)

// Pricer derives order totals from frozen snapshot prices. Satisfied by
// *pricing.Calculator.
type Pricer interface {
	Quote(lines []pricing.Line, discount decimal.Decimal) pricing.Totals
}

// CreateOrderInput carries everything the checkout transaction needs. Lines
// are the user's current cart lines; prices are NOT part of the input, they
// are read under row locks inside the transaction.
type CreateOrderInput struct {
	UserID          string
	Lines           []domain.CartLine
	ShippingAddress address.Input
	BillingAddress  *address.Input
	PaymentMethod   string
	Notes           string
	DiscountAmount  decimal.Decimal
}

// Repository persists orders. Create is the all-or-nothing checkout
// transaction; TransitionStatus applies a lifecycle change with optional
// stock restoration.
type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, restock bool) (*domain.Order, error)
}
