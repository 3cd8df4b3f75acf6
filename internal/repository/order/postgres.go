package order

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	productrepo "storefront/internal/repository/product"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const orderColumns = `id::text, order_number, user_id, status, payment_status, payment_method, subtotal, tax_amount, shipping_amount, discount_amount, total_amount, shipping_address_id::text, billing_address_id::text, COALESCE(notes, ''), created_at, updated_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	pricer Pricer
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

func NewPostgres(pool *pgxpool.Pool, pricer Pricer, prefix string, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{
		pool:   pool,
		pricer: pricer,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Create runs the checkout transaction: lock product rows, re-run the stock
// guard against the locked snapshot, price from snapshot values, reserve an
// order number, persist addresses, order and lines, decrement tracked stock
// and delete the cart lines. Either every write commits or none does.
func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]string, 0, len(in.Lines))
	for _, line := range in.Lines {
		ids = append(ids, line.ProductID)
	}

	snapshots, err := productrepo.SnapshotForUpdateTx(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStock(in.Lines, snapshots); err != nil {
		return nil, err
	}

	priceLines := make([]pricing.Line, 0, len(in.Lines))
	for _, line := range in.Lines {
		priceLines = append(priceLines, pricing.Line{
			UnitPrice: snapshots[line.ProductID].UnitPrice,
			Quantity:  line.Quantity,
		})
	}
	totals := r.pricer.Quote(priceLines, in.DiscountAmount)

	number, err := nextOrderNumberTx(ctx, tx, r.prefix, r.now())
	if err != nil {
		return nil, err
	}

	shippingID, err := addressrepo.InsertTx(ctx, tx, in.UserID, in.ShippingAddress)
	if err != nil {
		return nil, err
	}
	billingID := shippingID
	if in.BillingAddress != nil {
		billingID, err = addressrepo.InsertTx(ctx, tx, in.UserID, *in.BillingAddress)
		if err != nil {
			return nil, err
		}
	}

	const insertOrder = `
INSERT INTO orders (order_number, user_id, status, payment_status, payment_method, subtotal, tax_amount, shipping_amount, discount_amount, total_amount, shipping_address_id, billing_address_id, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NULLIF($13, ''))
RETURNING ` + orderColumns + `
`
	order, err := scanOrder(tx.QueryRow(ctx, insertOrder,
		number,
		in.UserID,
		domain.OrderStatusPending,
		domain.PaymentStatusPending,
		in.PaymentMethod,
		totals.Subtotal,
		totals.TaxAmount,
		totals.ShippingAmount,
		totals.DiscountAmount,
		totals.TotalAmount,
		shippingID,
		billingID,
		in.Notes,
	))
	if err != nil {
		return nil, err
	}

	const insertLine = `
INSERT INTO order_lines (order_id, product_id, product_name, quantity, unit_price, line_total)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	for _, line := range in.Lines {
		snap := snapshots[line.ProductID]
		lineTotal := snap.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		ol := domain.OrderLine{
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			ProductName: snap.Name,
			Quantity:    line.Quantity,
			UnitPrice:   snap.UnitPrice,
			LineTotal:   lineTotal,
		}
		if err := tx.QueryRow(ctx, insertLine, ol.OrderID, ol.ProductID, ol.ProductName, ol.Quantity, ol.UnitPrice, ol.LineTotal).Scan(&ol.ID); err != nil {
			return nil, err
		}
		order.Lines = append(order.Lines, ol)

		if !snap.TracksQuantity {
			continue
		}
		ok, err := productrepo.DecrementStockTx(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Row locks make this unreachable in practice; if stock still
			// moved underneath us, abort the whole checkout.
			return nil, &domain.StockError{
				ProductID: snap.ProductID,
				Name:      snap.Name,
				Requested: line.Quantity,
				Available: snap.AvailableQuantity,
			}
		}
	}

	if err := cartrepo.ClearTx(ctx, tx, in.UserID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", order.UserID),
		zap.String("total_amount", order.TotalAmount.String()),
	)
	return order, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	order, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if order.Lines, err = fetchLines(ctx, r.pool, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if result[i].Lines, err = fetchLines(ctx, r.pool, result[i].ID); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// TransitionStatus applies from -> to with a compare-and-set on the current
// status, so a concurrent transition loses cleanly instead of double
// applying. When restock is set, tracked line quantities are returned to
// stock in the same transaction.
func (r *postgresRepo) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, restock bool) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
UPDATE orders
SET status = $3, payment_status = CASE
        WHEN $3 = 'confirmed' THEN 'paid'
        WHEN $3 = 'refunded' THEN 'refunded'
        ELSE payment_status
    END,
    updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns + `
`
	order, err := scanOrder(tx.QueryRow(ctx, q, orderID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.classifyTransitionMiss(ctx, orderID, to)
		}
		return nil, err
	}

	if restock {
		if err := r.restockLinesTx(ctx, tx, orderID); err != nil {
			return nil, err
		}
	}

	// Read the lines before commit so a post-commit read failure can never
	// report an applied transition as failed.
	if order.Lines, err = fetchLines(ctx, tx, order.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	r.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	return order, nil
}

// classifyTransitionMiss distinguishes a missing order from a status that
// moved between the caller's read and the CAS update.
func (r *postgresRepo) classifyTransitionMiss(ctx context.Context, orderID string, to domain.OrderStatus) error {
	var current domain.OrderStatus
	err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, orderID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return &domain.InvalidTransitionError{From: current, To: to}
}

// restockLinesTx returns every tracked line's quantity to product stock.
func (r *postgresRepo) restockLinesTx(ctx context.Context, tx pgx.Tx, orderID string) error {
	rows, err := tx.Query(ctx, `
SELECT ol.product_id::text, ol.quantity
FROM order_lines ol
JOIN products p ON p.id = ol.product_id
WHERE ol.order_id = $1 AND p.tracks_quantity
`, orderID)
	if err != nil {
		return err
	}
	type restock struct {
		productID string
		qty       int
	}
	var restocks []restock
	for rows.Next() {
		var rs restock
		if err := rows.Scan(&rs.productID, &rs.qty); err != nil {
			rows.Close()
			return err
		}
		restocks = append(restocks, rs)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, rs := range restocks {
		if err := productrepo.RestockTx(ctx, tx, rs.productID, rs.qty); err != nil {
			return err
		}
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func fetchLines(ctx context.Context, q querier, orderID string) ([]domain.OrderLine, error) {
	const query = `
SELECT id::text, order_id::text, product_id::text, product_name, quantity, unit_price, line_total
FROM order_lines
WHERE order_id = $1
ORDER BY id
`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.LineTotal); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.Status,
		&o.PaymentStatus,
		&o.PaymentMethod,
		&o.Subtotal,
		&o.TaxAmount,
		&o.ShippingAmount,
		&o.DiscountAmount,
		&o.TotalAmount,
		&o.ShippingAddressID,
		&o.BillingAddressID,
		&o.Notes,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
