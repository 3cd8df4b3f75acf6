package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                string          `json:"id"`
	OrderNumber       string          `json:"orderNumber"`
	UserID            string          `json:"-"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     PaymentStatus   `json:"paymentStatus"`
	PaymentMethod     string          `json:"paymentMethod"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	ShippingAmount    decimal.Decimal `json:"shippingAmount"`
	DiscountAmount    decimal.Decimal `json:"discountAmount"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	ShippingAddressID string          `json:"shippingAddressId"`
	BillingAddressID  string          `json:"billingAddressId"`
	Notes             string          `json:"notes,omitempty"`
	Lines             []OrderLine     `json:"lines,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderLine freezes product, quantity and price at the instant the order was
// created. Immutable after insert.
type OrderLine struct {
	ID          string          `json:"id"`
	OrderID     string          `json:"orderId"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}
