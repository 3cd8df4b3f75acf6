package cart

import (
	"context"
	"errors"

	"storefront/internal/cache"
	"storefront/internal/domain"

	"go.uber.org/zap"
)

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
	AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	SetLineQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error)
	RemoveLine(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}

type snapshotReader interface {
	Snapshots(ctx context.Context, ids []string) (map[string]domain.ProductSnapshot, error)
}

// Service manages a user's cart. Reads go through the redis cache when one is
// configured (lineCache may be nil); every write invalidates it.
type Service struct {
	repo    cartRepo
	catalog snapshotReader
	cache   *cache.CartCache
	logger  *zap.Logger
}

func New(repo cartRepo, catalog snapshotReader, lineCache *cache.CartCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, catalog: catalog, cache: lineCache, logger: logger}
}

func (s *Service) Get(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if s.cache != nil {
		lines, err := s.cache.Get(ctx, userID)
		if err == nil {
			return lines, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cart cache read", zap.String("user_id", userID), zap.Error(err))
		}
	}

	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, lines); err != nil {
			s.logger.Warn("cart cache write", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return lines, nil
}

// AddItem puts quantity units of a product into the cart, verifying the
// product is purchasable and, for tracked products, that current stock covers
// the request. The authoritative stock check still happens at checkout.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	snapshots, err := s.catalog.Snapshots(ctx, []string{productID})
	if err != nil {
		return nil, err
	}
	probe := []domain.CartLine{{ProductID: productID, Quantity: quantity}}
	if err := domain.CheckStock(probe, snapshots); err != nil {
		return nil, err
	}

	line, err := s.repo.AddLine(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return line, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	if quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	line, err := s.repo.SetLineQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return line, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	if err := s.repo.RemoveLine(ctx, userID, productID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Invalidate drops the cached cart; checkout calls this after it deletes the
// cart lines inside the order transaction.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	s.invalidate(ctx, userID)
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidate", zap.String("user_id", userID), zap.Error(err))
	}
}
