package address

import (
	"context"

	"storefront/internal/domain"
)

// Input is the raw address payload accepted at checkout.
type Input struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Repository provides read access to persisted addresses.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
}
