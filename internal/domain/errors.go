package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when a checkout is attempted with no cart lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrForbidden indicates the actor is not allowed to perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StockError is returned when a requested quantity exceeds available stock.
// It names the offending product so the caller can amend the cart.
type StockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// ProductUnavailableError is returned when a cart references a product that is
// not currently purchasable.
type ProductUnavailableError struct {
	ProductID string
	Name      string
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %s is not available for purchase", e.ProductID)
}

// InvalidTransitionError reports an order status change not present in the
// transition table.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}
