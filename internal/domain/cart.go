package domain

import "time"

// CartLine is one product+quantity entry in a user's cart. Lines live until
// checkout converts them into order lines or the user removes them.
type CartLine struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
}
