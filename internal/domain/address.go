package domain

import "time"

type Address struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Address1   string    `json:"address1"`
	Address2   string    `json:"address2,omitempty"`
	City       string    `json:"city"`
	State      string    `json:"state"`
	PostalCode string    `json:"postalCode"`
	Country    string    `json:"country,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
