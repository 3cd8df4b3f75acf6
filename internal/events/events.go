package events

import (
	"time"

	"storefront/internal/domain"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status.changed"
)

// OrderEvent is the payload published to the order events topic. The
// notification consumer downstream turns these into customer emails; this
// service only emits.
type OrderEvent struct {
	EventID     string           `json:"eventId"`
	Type        string           `json:"type"`
	OrderID     string           `json:"orderId"`
	OrderNumber string           `json:"orderNumber"`
	UserID      string           `json:"userId"`
	Status      string           `json:"status"`
	PrevStatus  string           `json:"prevStatus,omitempty"`
	TotalAmount string           `json:"totalAmount"`
	Lines       []OrderEventLine `json:"lines,omitempty"`
	Timestamp   time.Time        `json:"timestamp"`
}

type OrderEventLine struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

func eventLines(lines []domain.OrderLine) []OrderEventLine {
	out := make([]OrderEventLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, OrderEventLine{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice.String(),
		})
	}
	return out
}
