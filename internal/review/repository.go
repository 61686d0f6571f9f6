package review

import (
	"context"
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
	Create(ctx context.Context, rv *Review) error
	ExistsFor(ctx context.Context, userID, productID string) (bool, error)
	HasPaidPurchase(ctx context.Context, userID, productID string) (bool, error)
	Approve(ctx context.Context, reviewID string) error
	ListApproved(ctx context.Context, productID string) ([]Review, error)
	ListPending(ctx context.Context) ([]Review, error)
	Summary(ctx context.Context, productID string) (Summary, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Create(ctx context.Context, rv *Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.CreatedAt = time.Now().UTC()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO reviews (id, user_id, product_id, rating, comment, approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, rv.ID, rv.UserID, rv.ProductID, rv.Rating, rv.Comment, rv.Approved, rv.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ExistsFor(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id=$1 AND product_id=$2)
	`, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check review exists: %w", err)
	}
	return exists, nil
}

// HasPaidPurchase reports whether any of the user's PAID orders contains the
// product. Order status is irrelevant; payment settlement is the gate.
func (r *PostgresRepository) HasPaidPurchase(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM order_lines ol
			JOIN orders o ON o.id = ol.order_id
			WHERE o.user_id=$1 AND ol.product_id=$2 AND o.payment_status='PAID'
		)
	`, userID, productID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check paid purchase: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Approve(ctx context.Context, reviewID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE reviews SET approved=TRUE WHERE id=$1`, reviewID)
	if err != nil {
		return fmt.Errorf("approve review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) listWhere(ctx context.Context, where string, args ...any) ([]Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, product_id, rating, comment, approved, created_at
		FROM reviews `+where+` ORDER BY created_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.ProductID, &rv.Rating, &rv.Comment,
			&rv.Approved, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return reviews, nil
}

func (r *PostgresRepository) ListApproved(ctx context.Context, productID string) ([]Review, error) {
	return r.listWhere(ctx, `WHERE product_id=$1 AND approved`, productID)
}

func (r *PostgresRepository) ListPending(ctx context.Context) ([]Review, error) {
	return r.listWhere(ctx, `WHERE NOT approved`)
}

func (r *PostgresRepository) Summary(ctx context.Context, productID string) (Summary, error) {
	var s Summary
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating), 0), COUNT(*)
		FROM reviews WHERE product_id=$1 AND approved
	`, productID).Scan(&s.AverageRating, &s.TotalCount)
	if err != nil {
		return Summary{}, fmt.Errorf("review summary: %w", err)
	}
	return s, nil
}
