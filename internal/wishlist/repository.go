package wishlist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("wishlist item not found")

type Item struct {
	ProductID     string    `json:"productId"`
	ProductName   string    `json:"productName"`
	Price         int64     `json:"price"`
	DiscountPrice *int64    `json:"discountPrice,omitempty"`
	Active        bool      `json:"active"`
	AddedAt       time.Time `json:"addedAt"`
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]Item, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Add is idempotent per (user, product).
func (r *PostgresRepository) Add(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO wishlist_items (user_id, product_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Remove(ctx context.Context, userID, productID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id=$1 AND product_id=$2`, userID, productID)
	if err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT w.product_id, p.name, p.price, p.discount_price, p.active, w.created_at
		FROM wishlist_items w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id=$1
		ORDER BY w.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("select wishlist: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.Price, &it.DiscountPrice,
			&it.Active, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return items, nil
}
