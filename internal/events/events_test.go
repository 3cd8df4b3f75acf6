package events

import (
	"encoding/json"
	"testing"

	"storefront/internal/domain"

	"github.com/shopspring/decimal"
)

func TestEventLines(t *testing.T) {
	lines := eventLines([]domain.OrderLine{
		{
			ProductID:   "p1",
			ProductName: "Blue Tee",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("19.99"),
		},
	})

	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].UnitPrice != "19.99" {
		t.Errorf("unit price = %q, want 19.99", lines[0].UnitPrice)
	}
	if lines[0].ProductName != "Blue Tee" || lines[0].Quantity != 2 {
		t.Errorf("unexpected line: %+v", lines[0])
	}
}

func TestOrderEvent_JSONShape(t *testing.T) {
	event := OrderEvent{
		EventID:     "e1",
		Type:        TypeOrderStatusChanged,
		OrderID:     "o1",
		OrderNumber: "ORD2503070001",
		UserID:      "u1",
		Status:      "confirmed",
		PrevStatus:  "pending",
		TotalAmount: "7380",
	}

	data, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["type"] != TypeOrderStatusChanged {
		t.Errorf("type = %v, want %s", decoded["type"], TypeOrderStatusChanged)
	}
	if decoded["prevStatus"] != "pending" {
		t.Errorf("prevStatus = %v, want pending", decoded["prevStatus"])
	}
	if _, ok := decoded["lines"]; ok {
		t.Error("empty lines should be omitted")
	}
}
