package seed

import (
	"context"
	"fmt"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productSeed struct {
	SKU            string
	Name           string
	Description    string
	Price          string
	Quantity       int
	TracksQuantity bool
	Status         string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			SKU:            "SKU-TSHIRT",
			Name:           "Cotton T-Shirt",
			Description:    "Soft cotton tee",
			Price:          "1999.00",
			Quantity:       120,
			TracksQuantity: true,
			Status:         domain.ProductStatusActive,
		},
		{
			SKU:            "SKU-MUG",
			Name:           "Ceramic Mug",
			Description:    "Ceramic mug with logo",
			Price:          "1299.00",
			Quantity:       45,
			TracksQuantity: true,
			Status:         domain.ProductStatusActive,
		},
		{
			SKU:            "SKU-GIFTCARD",
			Name:           "Gift Card",
			Description:    "Digital gift card, never out of stock",
			Price:          "5000.00",
			Quantity:       0,
			TracksQuantity: false,
			Status:         domain.ProductStatusActive,
		},
		{
			SKU:            "SKU-POSTER-DRAFT",
			Name:           "Limited Poster",
			Description:    "Not yet published",
			Price:          "2500.00",
			Quantity:       10,
			TracksQuantity: true,
			Status:         domain.ProductStatusDraft,
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
	}
	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return fmt.Errorf("parse price: %w", err)
	}
	_, err = pool.Exec(ctx, `
INSERT INTO products (sku, name, description, price, quantity, tracks_quantity, status, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    quantity = EXCLUDED.quantity,
    tracks_quantity = EXCLUDED.tracks_quantity,
    status = EXCLUDED.status,
    updated_at = now()
`, p.SKU, p.Name, p.Description, price, p.Quantity, p.TracksQuantity, p.Status)
	return err
}
