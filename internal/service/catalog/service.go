package catalog

import (
	"context"
	"fmt"
	"sync"

	"storefront/internal/domain"

	"golang.org/x/sync/errgroup"
)

type productRepo interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// Service exposes catalog reads and the snapshot reader used by cart and
// checkout validation.
type Service struct {
	repo          productRepo
	maxConcurrent int
}

func New(repo productRepo) *Service {
	return &Service{repo: repo, maxConcurrent: 8}
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.SKU == "" {
		return nil, &domain.ValidationError{Field: "sku", Reason: "required"}
	}
	if p.Name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "required"}
	}
	if p.Price.IsNegative() {
		return nil, &domain.ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusActive
	}
	return s.repo.Upsert(ctx, p)
}

// Snapshots reads the current checkout view for every given product id,
// fanning the lookups out with a bounded errgroup. A missing product fails
// the whole read with a wrapped ErrNotFound naming the id. This path takes no
// locks; the checkout transaction re-reads under FOR UPDATE before writing.
func (s *Service) Snapshots(ctx context.Context, ids []string) (map[string]domain.ProductSnapshot, error) {
	snapshots := make(map[string]domain.ProductSnapshot, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := s.repo.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
			mu.Lock()
			snapshots[id] = p.Snapshot()
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
