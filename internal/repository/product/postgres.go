package product

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const productColumns = `id::text, sku, name, COALESCE(description, ''), price, quantity, tracks_quantity, status, is_active, created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("product repo: list", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("product repo: list rows", zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("product repo: get", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, description, price, quantity, tracks_quantity, status, is_active)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    quantity = EXCLUDED.quantity,
    tracks_quantity = EXCLUDED.tracks_quantity,
    status = EXCLUDED.status,
    is_active = EXCLUDED.is_active,
    updated_at = now()
RETURNING ` + productColumns + `
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.SKU,
		product.Name,
		product.Description,
		product.Price,
		product.Quantity,
		product.TracksQuantity,
		product.Status,
		product.IsActive,
	))
	if err != nil {
		r.logger.Error("product repo: upsert", zap.String("sku", product.SKU), zap.Error(err))
		return nil, err
	}
	return &p, nil
}

// SnapshotForUpdateTx reads checkout snapshots for the given products inside
// tx, taking row locks so two concurrent checkouts serialize on the same
// inventory rows. Products are locked in id order to avoid lock cycles.
func SnapshotForUpdateTx(ctx context.Context, tx pgx.Tx, ids []string) (map[string]domain.ProductSnapshot, error) {
	const q = `
SELECT id::text, name, price, quantity, tracks_quantity, status, is_active
FROM products
WHERE id = ANY($1)
ORDER BY id
FOR UPDATE
`
	rows, err := tx.Query(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make(map[string]domain.ProductSnapshot, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Quantity, &p.TracksQuantity, &p.Status, &p.IsActive); err != nil {
			return nil, err
		}
		snapshots[p.ID] = p.Snapshot()
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// DecrementStockTx atomically subtracts qty from a product's stock. The guard
// in the WHERE clause keeps quantity from ever going below zero; zero rows
// affected means the stock moved underneath the caller and the transaction
// must abort.
func DecrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) (bool, error) {
	cmd, err := tx.Exec(ctx, `
UPDATE products
SET quantity = quantity - $2, updated_at = now()
WHERE id = $1 AND quantity >= $2
`, productID, qty)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

// RestockTx returns qty units to a product's stock, used when an order with
// tracked lines is cancelled.
func RestockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	_, err := tx.Exec(ctx, `
UPDATE products
SET quantity = quantity + $2, updated_at = now()
WHERE id = $1
`, productID, qty)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.SKU,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Quantity,
		&p.TracksQuantity,
		&p.Status,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
