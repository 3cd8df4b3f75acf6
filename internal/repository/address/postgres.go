package address

import (
	"context"

	"storefront/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const addressColumns = `id::text, user_id, first_name, last_name, address1, COALESCE(address2, ''), city, state, postal_code, COALESCE(country, ''), COALESCE(phone, ''), created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Address, error) {
	const q = `
SELECT ` + addressColumns + `
FROM addresses
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// InsertTx persists an address inside an enclosing transaction and returns
// its id. Checkout uses it so address creation commits atomically with the
// order insert.
func InsertTx(ctx context.Context, tx pgx.Tx, userID string, in Input) (string, error) {
	const q = `
INSERT INTO addresses (user_id, first_name, last_name, address1, address2, city, state, postal_code, country, phone)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
RETURNING id::text
`
	var id string
	err := tx.QueryRow(ctx, q,
		userID,
		in.FirstName,
		in.LastName,
		in.Address1,
		in.Address2,
		in.City,
		in.State,
		in.PostalCode,
		in.Country,
		in.Phone,
	).Scan(&id)
	return id, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (domain.Address, error) {
	var a domain.Address
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FirstName,
		&a.LastName,
		&a.Address1,
		&a.Address2,
		&a.City,
		&a.State,
		&a.PostalCode,
		&a.Country,
		&a.Phone,
		&a.CreatedAt,
	)
	return a, err
}
