package checkout

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	"storefront/internal/repository/address"
	orderrepo "storefront/internal/repository/order"

	"github.com/shopspring/decimal"
)

type stubCartRepo struct {
	lines []domain.CartLine
	err   error
}

func (s *stubCartRepo) ListByUser(_ context.Context, _ string) ([]domain.CartLine, error) {
	return s.lines, s.err
}

type stubOrderCreator struct {
	order     *domain.Order
	err       error
	calls     int
	lastInput orderrepo.CreateOrderInput
}

func (s *stubOrderCreator) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	s.calls++
	s.lastInput = in
	return s.order, s.err
}

type stubCatalog struct {
	snapshots map[string]domain.ProductSnapshot
	err       error
}

func (s *stubCatalog) Snapshots(_ context.Context, _ []string) (map[string]domain.ProductSnapshot, error) {
	return s.snapshots, s.err
}

type stubInvalidator struct {
	calls []string
}

func (s *stubInvalidator) Invalidate(_ context.Context, userID string) {
	s.calls = append(s.calls, userID)
}

type recordingNotifier struct {
	created []string
	changed []string
}

func (n *recordingNotifier) OrderCreated(_ context.Context, order *domain.Order) {
	n.created = append(n.created, order.ID)
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, order *domain.Order, _ domain.OrderStatus) {
	n.changed = append(n.changed, order.ID)
}

type stubDiscounts struct {
	amount       decimal.Decimal
	err          error
	lastCoupon   string
	lastSubtotal decimal.Decimal
}

func (s *stubDiscounts) Resolve(_ context.Context, couponCode string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	s.lastCoupon = couponCode
	s.lastSubtotal = subtotal
	return s.amount, s.err
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func validInput() Input {
	return Input{
		ShippingAddress: address.Input{
			FirstName:  "Ada",
			LastName:   "Lovelace",
			Address1:   "1 Analytical Way",
			City:       "London",
			State:      "LN",
			PostalCode: "E1 6AN",
			Country:    "GB",
		},
		PaymentMethod: "card",
	}
}

func purchasable(id string, qty int) domain.ProductSnapshot {
	return domain.ProductSnapshot{
		ProductID:         id,
		Name:              "Product " + id,
		UnitPrice:         d("10.00"),
		AvailableQuantity: qty,
		TracksQuantity:    true,
		IsPurchasable:     true,
	}
}

func newTestService(carts *stubCartRepo, orders *stubOrderCreator, catalog *stubCatalog, mods ...func(*Deps)) (*Service, *stubInvalidator, *recordingNotifier) {
	inv := &stubInvalidator{}
	notifier := &recordingNotifier{}
	deps := Deps{
		Carts:     carts,
		Orders:    orders,
		Catalog:   catalog,
		Pricer:    pricing.NewCalculator(),
		CartCache: inv,
		Notifier:  notifier,
	}
	for _, mod := range mods {
		mod(&deps)
	}
	return New(deps), inv, notifier
}

func TestPlaceOrder_Success(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 2, UserID: "u1"}}}
	orders := &stubOrderCreator{order: &domain.Order{ID: "o1", UserID: "u1", Status: domain.OrderStatusPending}}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 5)}}
	svc, inv, notifier := newTestService(carts, orders, catalog)

	order, err := svc.PlaceOrder(context.Background(), "u1", validInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "o1" {
		t.Fatalf("order ID = %q, want o1", order.ID)
	}
	if orders.calls != 1 {
		t.Fatalf("Create calls = %d, want 1", orders.calls)
	}
	if orders.lastInput.UserID != "u1" || len(orders.lastInput.Lines) != 1 {
		t.Fatalf("unexpected create input: %+v", orders.lastInput)
	}
	if len(inv.calls) != 1 || inv.calls[0] != "u1" {
		t.Fatalf("cache invalidation calls = %v, want [u1]", inv.calls)
	}
	if len(notifier.created) != 1 || notifier.created[0] != "o1" {
		t.Fatalf("notifier created = %v, want [o1]", notifier.created)
	}
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	orders := &stubOrderCreator{}
	svc, _, notifier := newTestService(&stubCartRepo{}, orders, &stubCatalog{})

	_, err := svc.PlaceOrder(context.Background(), "u1", validInput())

	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatalf("Create should not be called on empty cart")
	}
	if len(notifier.created) != 0 {
		t.Fatalf("no event should fire on failure")
	}
}

func TestPlaceOrder_ValidationBeforeAnyRead(t *testing.T) {
	carts := &stubCartRepo{err: errors.New("should not be reached")}
	svc, _, _ := newTestService(carts, &stubOrderCreator{}, &stubCatalog{})

	in := validInput()
	in.PaymentMethod = "  "
	_, err := svc.PlaceOrder(context.Background(), "u1", in)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "paymentMethod" {
		t.Fatalf("Field = %q, want paymentMethod", verr.Field)
	}
}

func TestPlaceOrder_MissingAddressField(t *testing.T) {
	svc, _, _ := newTestService(&stubCartRepo{}, &stubOrderCreator{}, &stubCatalog{})

	in := validInput()
	in.ShippingAddress.City = ""
	_, err := svc.PlaceOrder(context.Background(), "u1", in)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "shippingAddress.city" {
		t.Fatalf("Field = %q, want shippingAddress.city", verr.Field)
	}
}

func TestPlaceOrder_BillingAddressValidatedWhenPresent(t *testing.T) {
	svc, _, _ := newTestService(&stubCartRepo{}, &stubOrderCreator{}, &stubCatalog{})

	in := validInput()
	in.BillingAddress = &address.Input{FirstName: "Ada"}
	_, err := svc.PlaceOrder(context.Background(), "u1", in)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "billingAddress.lastName" {
		t.Fatalf("Field = %q, want billingAddress.lastName", verr.Field)
	}
}

func TestPlaceOrder_StockFailureStopsBeforeCreate(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 10}}}
	orders := &stubOrderCreator{}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 3)}}
	svc, inv, notifier := newTestService(carts, orders, catalog)

	_, err := svc.PlaceOrder(context.Background(), "u1", validInput())

	var stockErr *domain.StockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockError, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatalf("Create should not run after a failed stock check")
	}
	if len(inv.calls) != 0 || len(notifier.created) != 0 {
		t.Fatalf("no side effects should fire on failure")
	}
}

func TestPlaceOrder_UnpurchasableProduct(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 1}}}
	snap := purchasable("p1", 5)
	snap.IsPurchasable = false
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": snap}}
	svc, _, _ := newTestService(carts, &stubOrderCreator{}, catalog)

	_, err := svc.PlaceOrder(context.Background(), "u1", validInput())

	var unavailErr *domain.ProductUnavailableError
	if !errors.As(err, &unavailErr) {
		t.Fatalf("expected ProductUnavailableError, got %v", err)
	}
}

func TestPlaceOrder_CouponResolvedAgainstSubtotal(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 2}}}
	orders := &stubOrderCreator{order: &domain.Order{ID: "o1"}}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 5)}}
	discounts := &stubDiscounts{amount: d("3.50")}
	svc, _, _ := newTestService(carts, orders, catalog, func(deps *Deps) {
		deps.Discounts = discounts
	})

	in := validInput()
	in.CouponCode = "SAVE10"
	if _, err := svc.PlaceOrder(context.Background(), "u1", in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if discounts.lastCoupon != "SAVE10" {
		t.Fatalf("coupon = %q, want SAVE10", discounts.lastCoupon)
	}
	if !discounts.lastSubtotal.Equal(d("20.00")) {
		t.Fatalf("subtotal = %s, want 20.00", discounts.lastSubtotal)
	}
	if !orders.lastInput.DiscountAmount.Equal(d("3.50")) {
		t.Fatalf("discount = %s, want 3.50", orders.lastInput.DiscountAmount)
	}
}

func TestPlaceOrder_EmptyCouponSkipsResolver(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 1}}}
	orders := &stubOrderCreator{order: &domain.Order{ID: "o1"}}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 5)}}
	discounts := &stubDiscounts{err: errors.New("resolver should not be called")}
	svc, _, _ := newTestService(carts, orders, catalog, func(deps *Deps) {
		deps.Discounts = discounts
	})

	if _, err := svc.PlaceOrder(context.Background(), "u1", validInput()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orders.lastInput.DiscountAmount.Equal(decimal.Zero) {
		t.Fatalf("discount = %s, want 0", orders.lastInput.DiscountAmount)
	}
}

func TestPlaceOrder_CreateFailurePropagates(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 1}}}
	sentinel := errors.New("tx failed")
	orders := &stubOrderCreator{err: sentinel}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 5)}}
	svc, inv, notifier := newTestService(carts, orders, catalog)

	_, err := svc.PlaceOrder(context.Background(), "u1", validInput())

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected tx error, got %v", err)
	}
	if len(inv.calls) != 0 || len(notifier.created) != 0 {
		t.Fatalf("no side effects should fire when the transaction fails")
	}
}

func TestQuote_TotalsFromSnapshots(t *testing.T) {
	carts := &stubCartRepo{lines: []domain.CartLine{{ProductID: "p1", Quantity: 2}}}
	catalog := &stubCatalog{snapshots: map[string]domain.ProductSnapshot{"p1": purchasable("p1", 5)}}
	svc, _, _ := newTestService(carts, &stubOrderCreator{}, catalog)

	totals, err := svc.Quote(context.Background(), "u1", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !totals.Subtotal.Equal(d("20.00")) {
		t.Fatalf("subtotal = %s, want 20.00", totals.Subtotal)
	}
	if !totals.TaxAmount.Equal(d("3.80")) {
		t.Fatalf("tax = %s, want 3.80", totals.TaxAmount)
	}
	if !totals.ShippingAmount.Equal(d("5000")) {
		t.Fatalf("shipping = %s, want 5000", totals.ShippingAmount)
	}
}

func TestQuote_EmptyCart(t *testing.T) {
	svc, _, _ := newTestService(&stubCartRepo{}, &stubOrderCreator{}, &stubCatalog{})

	_, err := svc.Quote(context.Background(), "u1", "")

	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}
