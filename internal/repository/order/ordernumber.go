package order

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// nextOrderNumberTx reserves the next per-day sequence number inside tx and
// formats it as <PREFIX><YY><MM><DD><seq>. The counter row is incremented
// atomically, so concurrent checkouts never observe the same sequence; the
// unique constraint on orders.order_number backstops it.
func nextOrderNumberTx(ctx context.Context, tx pgx.Tx, prefix string, day time.Time) (string, error) {
	const q = `
INSERT INTO order_counters (day, counter)
VALUES ($1, 1)
ON CONFLICT (day) DO UPDATE SET counter = order_counters.counter + 1
RETURNING counter
`
	var seq int
	if err := tx.QueryRow(ctx, q, day.Format("2006-01-02")).Scan(&seq); err != nil {
		return "", err
	}
	return formatOrderNumber(prefix, day, seq), nil
}

func formatOrderNumber(prefix string, day time.Time, seq int) string {
	return fmt.Sprintf("%s%s%04d", prefix, day.Format("060102"), seq)
}
