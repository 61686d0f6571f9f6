package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	CreateTx(ctx context.Context, tx pgx.Tx, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, orderID string) (*Order, error)
	SetStatusTx(ctx context.Context, tx pgx.Tx, orderID string, status Status) error
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
	UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = `id, order_number, user_id, status, payment_status, payment_method,
		total_amount, shipping_cost, discount_amount,
		shipping_name, shipping_phone, shipping_address, shipping_city,
		shipping_postal_code, shipping_service, created_at`

func (r *PostgresRepository) CreateTx(ctx context.Context, tx pgx.Tx, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, o.ID, o.Number, o.UserID, o.Status, o.PaymentStatus, o.PaymentMethod,
		o.TotalAmount, o.ShippingCost, o.DiscountAmount,
		o.Shipping.Name, o.Shipping.Phone, o.Shipping.Address, o.Shipping.City,
		o.Shipping.PostalCode, o.Shipping.Service, o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range o.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (id, order_id, product_id, product_name, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, uuid.NewString(), o.ID, l.ProductID, l.ProductName, l.Quantity, l.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
		&o.TotalAmount, &o.ShippingCost, &o.DiscountAmount,
		&o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address, &o.Shipping.City,
		&o.Shipping.PostalCode, &o.Shipping.Service, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, orderID string) (*Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, r.pool, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

// GetForUpdateTx locks the order row for the remainder of the transaction so
// concurrent cancellations serialize on it.
func (r *PostgresRepository) GetForUpdateTx(ctx context.Context, tx pgx.Tx, orderID string) (*Order, error) {
	row := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	lines, err := r.loadLines(ctx, tx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return o, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *PostgresRepository) loadLines(ctx context.Context, q querier, orderID string) ([]Line, error) {
	rows, err := q.Query(ctx, `
		SELECT product_id, product_name, quantity, unit_price
		FROM order_lines WHERE order_id=$1
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ProductID, &l.ProductName, &l.Quantity, &l.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

func (r *PostgresRepository) SetStatusTx(ctx context.Context, tx pgx.Tx, orderID string, status Status) error {
	tag, err := tx.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) listWhere(ctx context.Context, where string, args ...any) ([]Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders `+where+` ORDER BY created_at DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.PaymentStatus, &o.PaymentMethod,
			&o.TotalAmount, &o.ShippingCost, &o.DiscountAmount,
			&o.Shipping.Name, &o.Shipping.Phone, &o.Shipping.Address, &o.Shipping.City,
			&o.Shipping.PostalCode, &o.Shipping.Service, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	for i := range orders {
		lines, err := r.loadLines(ctx, r.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Lines = lines
	}
	return orders, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return r.listWhere(ctx, `WHERE user_id=$1`, userID)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, status Status) ([]Order, error) {
	return r.listWhere(ctx, `WHERE status=$1`, status)
}

func (r *PostgresRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]Order, error) {
	return r.listWhere(ctx, `WHERE created_at >= $1 AND created_at < $2`, from, to)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdatePaymentStatus(ctx context.Context, orderID string, status PaymentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET payment_status=$2 WHERE id=$1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
