// Package checkout orchestrates order placement: it validates the request,
// runs the pre-write business checks, delegates the atomic transaction to the
// order repository, then fires best-effort side effects.
package checkout

import (
	"context"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/pricing"
	"storefront/internal/repository/address"
	orderrepo "storefront/internal/repository/order"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
}

type orderCreator interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
}

type snapshotReader interface {
	Snapshots(ctx context.Context, ids []string) (map[string]domain.ProductSnapshot, error)
}

type cartInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

type Service struct {
	carts     cartRepo
	orders    orderCreator
	catalog   snapshotReader
	pricer    *pricing.Calculator
	discounts pricing.DiscountResolver
	cartCache cartInvalidator
	notifier  events.Notifier
	logger    *zap.Logger
}

// Deps bundles the checkout collaborators.
type Deps struct {
	Carts     cartRepo
	Orders    orderCreator
	Catalog   snapshotReader
	Pricer    *pricing.Calculator
	Discounts pricing.DiscountResolver
	CartCache cartInvalidator
	Notifier  events.Notifier
	Logger    *zap.Logger
}

func New(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Discounts == nil {
		deps.Discounts = pricing.NoDiscount{}
	}
	if deps.Notifier == nil {
		deps.Notifier = events.NopNotifier{}
	}
	return &Service{
		carts:     deps.Carts,
		orders:    deps.Orders,
		catalog:   deps.Catalog,
		pricer:    deps.Pricer,
		discounts: deps.Discounts,
		cartCache: deps.CartCache,
		notifier:  deps.Notifier,
		logger:    deps.Logger,
	}
}

// Input is the checkout request body. Prices never come from here.
type Input struct {
	ShippingAddress address.Input  `json:"shippingAddress"`
	BillingAddress  *address.Input `json:"billingAddress,omitempty"`
	PaymentMethod   string         `json:"paymentMethod"`
	Notes           string         `json:"notes,omitempty"`
	CouponCode      string         `json:"couponCode,omitempty"`
}

// PlaceOrder converts the user's cart into an order. Business-rule failures
// (empty cart, stock, availability, validation) are detected before any write
// begins; the write itself is a single transaction owned by the order
// repository. The confirmation event is fire-and-forget.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in Input) (*domain.Order, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	snapshots, err := s.catalog.Snapshots(ctx, productIDs(lines))
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStock(lines, snapshots); err != nil {
		return nil, err
	}

	discount, err := s.resolveDiscount(ctx, in.CouponCode, lines, snapshots)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		UserID:          userID,
		Lines:           lines,
		ShippingAddress: in.ShippingAddress,
		BillingAddress:  in.BillingAddress,
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		DiscountAmount:  discount,
	})
	if err != nil {
		return nil, err
	}

	if s.cartCache != nil {
		s.cartCache.Invalidate(ctx, userID)
	}
	s.notifier.OrderCreated(ctx, order)

	return order, nil
}

// Quote prices the current cart without placing an order.
func (s *Service) Quote(ctx context.Context, userID, couponCode string) (pricing.Totals, error) {
	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		return pricing.Totals{}, err
	}
	if len(lines) == 0 {
		return pricing.Totals{}, domain.ErrEmptyCart
	}

	snapshots, err := s.catalog.Snapshots(ctx, productIDs(lines))
	if err != nil {
		return pricing.Totals{}, err
	}
	if err := domain.CheckStock(lines, snapshots); err != nil {
		return pricing.Totals{}, err
	}

	discount, err := s.resolveDiscount(ctx, couponCode, lines, snapshots)
	if err != nil {
		return pricing.Totals{}, err
	}
	return s.pricer.Quote(priceLines(lines, snapshots), discount), nil
}

func (s *Service) resolveDiscount(ctx context.Context, couponCode string, lines []domain.CartLine, snapshots map[string]domain.ProductSnapshot) (decimal.Decimal, error) {
	couponCode = strings.TrimSpace(couponCode)
	if couponCode == "" {
		return decimal.Zero, nil
	}
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(snapshots[line.ProductID].UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return s.discounts.Resolve(ctx, couponCode, subtotal.Round(2))
}

func validateInput(in Input) error {
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return &domain.ValidationError{Field: "paymentMethod", Reason: "required"}
	}
	if err := validateAddress("shippingAddress", in.ShippingAddress); err != nil {
		return err
	}
	if in.BillingAddress != nil {
		if err := validateAddress("billingAddress", *in.BillingAddress); err != nil {
			return err
		}
	}
	return nil
}

func validateAddress(field string, a address.Input) error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"address1", a.Address1},
		{"city", a.City},
		{"state", a.State},
		{"postalCode", a.PostalCode},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &domain.ValidationError{Field: field + "." + f.name, Reason: "required"}
		}
	}
	return nil
}

func productIDs(lines []domain.CartLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	return ids
}

func priceLines(lines []domain.CartLine, snapshots map[string]domain.ProductSnapshot) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		out = append(out, pricing.Line{
			UnitPrice: snapshots[line.ProductID].UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	return out
}
