package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tendant/simple-trader/pkg/simpletrader"
	"github.com/tendant/simple-trader/pkg/simpletrader/catalog"
)

// Schema creates the orders table. Lines are stored as JSONB and totals as NUMERIC.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id           UUID PRIMARY KEY,
	user_id      TEXT NOT NULL,
	mode         TEXT NOT NULL,
	lines        JSONB NOT NULL,
	total        NUMERIC NOT NULL,
	status       TEXT NOT NULL,
	confirmed_by TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_user_created_idx ON orders (user_id, created_at DESC);`

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simpletrader.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate applies Schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return simpletrader.ErrOrderExists
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return simpletrader.ErrOrderNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

const orderColumns = `id, user_id, mode, lines, total::text, status, confirmed_by, created_at, updated_at`

func (r *Repository) CreateOrder(ctx context.Context, order *simpletrader.Order) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	query := `
		INSERT INTO orders (
			id, user_id, mode, lines, total, status, confirmed_by, created_at, updated_at
		) VALUES ($1, $2, $3, $4::jsonb, $5::numeric, $6, $7, $8, $9)`

	_, err = r.db.Exec(ctx, query,
		order.ID, order.UserID, string(order.Mode), lines, order.Total.String(),
		string(order.Status), order.ConfirmedBy, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create order", err)
	}
	return nil
}

func (r *Repository) GetOrder(ctx context.Context, id uuid.UUID) (*simpletrader.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get order", err)
	}
	return order, nil
}

func (r *Repository) UpdateOrder(ctx context.Context, order *simpletrader.Order, from simpletrader.OrderStatus) error {
	lines, err := json.Marshal(order.Lines)
	if err != nil {
		return fmt.Errorf("failed to encode order lines: %w", err)
	}

	query := `
		UPDATE orders SET
			user_id = $2, mode = $3, lines = $4::jsonb, total = $5::numeric,
			status = $6, confirmed_by = $7, updated_at = $8
		WHERE id = $1 AND status = $9`

	tag, err := r.db.Exec(ctx, query,
		order.ID, order.UserID, string(order.Mode), lines, order.Total.String(),
		string(order.Status), order.ConfirmedBy, order.UpdatedAt, string(from))
	if err != nil {
		return r.handlePostgresError("update order", err)
	}
	if tag.RowsAffected() == 0 {
		var current string
		err := r.db.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, order.ID).Scan(&current)
		if err != nil {
			return r.handlePostgresError("update order", err)
		}
		return fmt.Errorf("%w: order is %s, expected %s", simpletrader.ErrInvalidOrderStatus, current, from)
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context, userID string) ([]*simpletrader.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
		WHERE ($1::text = '' OR user_id = $1)
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, r.handlePostgresError("list orders", err)
	}
	defer rows.Close()

	var orders []*simpletrader.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, r.handlePostgresError("list orders", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list orders", err)
	}
	return orders, nil
}

func (r *Repository) DeleteAllOrders(ctx context.Context) (int, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders`)
	if err != nil {
		return 0, r.handlePostgresError("delete orders", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanOrder(row pgx.Row) (*simpletrader.Order, error) {
	var (
		order  simpletrader.Order
		mode   string
		status string
		lines  []byte
		total  string
	)
	err := row.Scan(&order.ID, &order.UserID, &mode, &lines, &total,
		&status, &order.ConfirmedBy, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, err
	}

	order.Mode = catalog.Mode(mode)
	order.Status = simpletrader.OrderStatus(status)
	if err := json.Unmarshal(lines, &order.Lines); err != nil {
		return nil, fmt.Errorf("failed to decode order lines: %w", err)
	}
	if order.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("failed to decode order total: %w", err)
	}
	return &order, nil
}
