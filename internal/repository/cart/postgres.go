package cart

import (
	"context"
	"errors"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT id::text, user_id, product_id::text, quantity, created_at
FROM cart_lines
WHERE user_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// AddLine inserts a cart line or adds to the quantity of an existing one.
func (r *postgresRepo) AddLine(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, product_id) DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
RETURNING id::text, user_id, product_id::text, quantity, created_at
`
	return r.scanLine(r.pool.QueryRow(ctx, q, userID, productID, quantity))
}

func (r *postgresRepo) SetLineQuantity(ctx context.Context, userID, productID string, quantity int) (*domain.CartLine, error) {
	const q = `
UPDATE cart_lines
SET quantity = $3
WHERE user_id = $1 AND product_id = $2
RETURNING id::text, user_id, product_id::text, quantity, created_at
`
	line, err := r.scanLine(r.pool.QueryRow(ctx, q, userID, productID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return line, nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, userID, productID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	return err
}

// ClearTx deletes the user's cart lines inside an enclosing transaction; the
// checkout orchestrator uses it so cart destruction commits together with the
// order insert.
func ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	_, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	return err
}

func (r *postgresRepo) scanLine(row pgx.Row) (*domain.CartLine, error) {
	var line domain.CartLine
	if err := row.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.CreatedAt); err != nil {
		return nil, err
	}
	return &line, nil
}
