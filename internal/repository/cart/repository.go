package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository provides access to a user's cart lines.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	SetLineQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	RemoveLine(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
