package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hneno001/qr-cafe/internal/domain"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

func (r *OrderRepository) GetTableByToken(ctx context.Context, token string) (domain.Table, error) {
	const query = `
SELECT id, table_name, token, active
FROM table_tokens
WHERE token = $1`

	var t domain.Table
	err := r.queryRow(ctx, query, token).Scan(&t.ID, &t.Name, &t.Token, &t.Active)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Table{}, domain.ErrInvalidTable
		}
		return domain.Table{}, fmt.Errorf("get table: %w", err)
	}
	return t, nil
}

func (r *OrderRepository) GetProducts(ctx context.Context, ids []int64) (map[int64]domain.Product, error) {
	const query = `
SELECT id, name, price, is_available
FROM products
WHERE id = ANY($1)`

	rows, err := r.query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	defer rows.Close()

	products := make(map[int64]domain.Product, len(ids))
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Available); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products[p.ID] = p
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate products: %w", rows.Err())
	}
	return products, nil
}

func (r *OrderRepository) GetOrderIDByClientKey(ctx context.Context, key string) (int64, bool, error) {
	const query = `SELECT id FROM orders WHERE client_key = $1`

	var id int64
	err := r.queryRow(ctx, query, key).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get order by client key: %w", err)
	}
	return id, true, nil
}

func (r *OrderRepository) InsertOrder(ctx context.Context, order domain.Order, items []domain.OrderLineItem) (int64, error) {
	const orderStmt = `
INSERT INTO orders (table_id, status, client_key, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var clientKey any
	if order.ClientKey != "" {
		clientKey = order.ClientKey
	}

	var id int64
	err := r.queryRow(ctx, orderStmt,
		order.TableID, order.Status, clientKey, order.CreatedAt, order.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.ErrDuplicateClientKey
		}
		return 0, fmt.Errorf("insert order: %w", err)
	}

	const itemStmt = `
INSERT INTO order_items (order_id, product_id, qty, unit_price)
VALUES ($1, $2, $3, $4)`

	for _, item := range items {
		if _, err := r.exec(ctx, itemStmt, id, item.ProductID, item.Qty, item.UnitPrice); err != nil {
			return 0, fmt.Errorf("insert order item: %w", err)
		}
	}
	return id, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus, now time.Time) (int64, error) {
	const stmt = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.exec(ctx, stmt, orderID, status, now)
	if err != nil {
		return 0, fmt.Errorf("update status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepository) UpdateStatusIf(ctx context.Context, orderID int64, status, expected domain.OrderStatus, now time.Time) (int64, error) {
	// The status predicate makes this a compare-and-swap: concurrent
	// writers race on the row and exactly one sees RowsAffected=1.
	const stmt = `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`

	tag, err := r.exec(ctx, stmt, orderID, status, now, expected)
	if err != nil {
		return 0, fmt.Errorf("update status conditionally: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *OrderRepository) ListActiveOrders(ctx context.Context, limit int) ([]domain.SnapshotOrder, error) {
	const query = `
SELECT o.id, o.status, o.created_at, t.table_name
FROM orders o
JOIN table_tokens t ON t.id = o.table_id
WHERE o.status IN ('NEW', 'IN_PROGRESS', 'READY')
ORDER BY (o.status = 'NEW') DESC, o.created_at DESC
LIMIT $1`

	rows, err := r.query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.SnapshotOrder
	for rows.Next() {
		var o domain.SnapshotOrder
		if err := rows.Scan(&o.ID, &o.Status, &o.CreatedAt, &o.Table); err != nil {
			return nil, fmt.Errorf("scan active order: %w", err)
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate active orders: %w", rows.Err())
	}
	return orders, nil
}

func (r *OrderRepository) ListItemsForOrders(ctx context.Context, orderIDs []int64) (map[int64][]domain.SnapshotItem, error) {
	const query = `
SELECT i.order_id, p.name, i.qty, i.unit_price
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = ANY($1)
ORDER BY i.order_id, i.id`

	rows, err := r.query(ctx, query, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.SnapshotItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item domain.SnapshotItem
		if err := rows.Scan(&orderID, &item.Name, &item.Qty, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate order items: %w", rows.Err())
	}
	return items, nil
}

func (r *OrderRepository) ListHistory(ctx context.Context, f domain.HistoryFilter) ([]domain.HistoryOrder, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 4)

	switch f.Status {
	case domain.HistoryServed:
		where = append(where, `o.status = 'SERVED'`)
	case domain.HistoryCancelled:
		where = append(where, `o.status = 'CANCELLED'`)
	default:
		where = append(where, `o.status IN ('SERVED', 'CANCELLED')`)
	}

	hasRange := false
	if f.Date != "" {
		args = append(args, f.Date)
		n := len(args)
		where = append(where, fmt.Sprintf(`o.created_at >= $%d::date AND o.created_at < $%d::date + INTERVAL '1 day'`, n, n))
		hasRange = true
	} else {
		if f.From != "" {
			args = append(args, f.From)
			where = append(where, fmt.Sprintf(`o.created_at >= $%d::date`, len(args)))
			hasRange = true
		}
		if f.To != "" {
			args = append(args, f.To)
			where = append(where, fmt.Sprintf(`o.created_at < $%d::date + INTERVAL '1 day'`, len(args)))
			hasRange = true
		}
	}

	query := fmt.Sprintf(`
SELECT o.id, COALESCE(t.table_name, o.table_id::text), o.status, o.created_at, o.updated_at
FROM orders o
LEFT JOIN table_tokens t ON t.id = o.table_id
WHERE %s
ORDER BY o.created_at DESC`, strings.Join(where, " AND "))

	if !hasRange {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var orders []domain.HistoryOrder
	for rows.Next() {
		var o domain.HistoryOrder
		if err := rows.Scan(&o.ID, &o.Table, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan history order: %w", err)
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate history: %w", rows.Err())
	}
	if len(orders) == 0 {
		return orders, nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		orders[i].Items = []domain.HistoryItem{}
	}

	const itemsQuery = `
SELECT i.order_id, p.name, i.qty
FROM order_items i
JOIN products p ON p.id = i.product_id
WHERE i.order_id = ANY($1)
ORDER BY i.order_id, i.id`

	itemRows, err := r.query(ctx, itemsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item domain.HistoryItem
		if err := itemRows.Scan(&orderID, &item.Name, &item.Qty); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if itemRows.Err() != nil {
		return nil, fmt.Errorf("iterate history items: %w", itemRows.Err())
	}
	return orders, nil
}

func (r *OrderRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *OrderRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *OrderRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
