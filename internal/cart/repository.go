package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("cart line not found")

// Line is one (product, quantity) entry in a user's pending-purchase list.
type Line struct {
	UserID    string    `json:"-"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	ListLines(ctx context.Context, userID string) ([]Line, error)
	AddLine(ctx context.Context, userID, productID string, qty int) error
	SetQuantity(ctx context.Context, userID, productID string, qty int) error
	RemoveLine(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) ListLines(ctx context.Context, userID string) ([]Line, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, product_id, quantity, updated_at
		FROM cart_lines WHERE user_id=$1 ORDER BY updated_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select cart lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.UserID, &l.ProductID, &l.Quantity, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return lines, nil
}

// AddLine upserts: adding a product already in the cart bumps its quantity.
func (r *PostgresRepository) AddLine(ctx context.Context, userID, productID string, qty int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO cart_lines (user_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = now()
	`, userID, productID, qty)
	if err != nil {
		return fmt.Errorf("upsert cart line: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, userID, productID string, qty int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE cart_lines SET quantity=$3, updated_at=now()
		WHERE user_id=$1 AND product_id=$2
	`, userID, productID, qty)
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) RemoveLine(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_lines WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ClearTx(ctx context.Context, tx pgx.Tx, userID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
