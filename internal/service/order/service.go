// Package order governs the post-creation order lifecycle: reads scoped to
// the owning user, and status transitions checked against the transition
// table with actor authorization.
package order

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/events"

	"go.uber.org/zap"
)

// RoleAdmin may apply any legal transition; everyone else is limited to
// self-service cancellation.
const RoleAdmin = "admin"

// Actor is the authenticated identity supplied by the upstream auth
// collaborator. The service trusts it and performs no credential checks.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

type orderRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, restock bool) (*domain.Order, error)
}

type Service struct {
	repo     orderRepo
	notifier events.Notifier
	logger   *zap.Logger
}

func New(repo orderRepo, notifier events.Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = events.NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	return order, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel is the self-service path: the owning user may cancel while the order
// is still pending or confirmed.
func (s *Service) Cancel(ctx context.Context, actor Actor, id string) (*domain.Order, error) {
	return s.Transition(ctx, actor, id, domain.OrderStatusCancelled)
}

// Transition applies a lifecycle change. Admins may apply any transition in
// the table; owners only cancellation from pending/confirmed. Cancellation
// restores tracked stock atomically with the status write.
func (s *Service) Transition(ctx context.Context, actor Actor, id string, next domain.OrderStatus) (*domain.Order, error) {
	if !next.IsValid() {
		return nil, &domain.ValidationError{Field: "status", Reason: "unknown status"}
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(actor, order, next); err != nil {
		return nil, err
	}
	if !domain.CanTransition(order.Status, next) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}

	restock := next == domain.OrderStatusCancelled
	updated, err := s.repo.TransitionStatus(ctx, id, order.Status, next, restock)
	if err != nil {
		return nil, err
	}

	s.notifier.OrderStatusChanged(ctx, updated, order.Status)
	return updated, nil
}

func authorize(actor Actor, order *domain.Order, next domain.OrderStatus) error {
	if actor.IsAdmin() {
		return nil
	}
	if order.UserID != actor.UserID {
		return domain.ErrForbidden
	}
	if next != domain.OrderStatusCancelled {
		return domain.ErrForbidden
	}
	if order.Status != domain.OrderStatusPending && order.Status != domain.OrderStatusConfirmed {
		return domain.ErrForbidden
	}
	return nil
}
