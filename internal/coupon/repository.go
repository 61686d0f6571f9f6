package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("coupon not found")

type Coupon struct {
	Code      string     `json:"code"`
	Amount    int64      `json:"amount"`
	MinTotal  int64      `json:"minTotal"`
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Resolution is the outcome of looking up a discount code. An unrecognized or
// unusable code is not an error, it just resolves invalid.
type Resolution struct {
	Valid  bool
	Amount int64
}

// Resolver is what order placement depends on; the order core never sees
// coupon storage or rules.
type Resolver interface {
	Resolve(ctx context.Context, code string, cartTotal int64) (Resolution, error)
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Resolve(ctx context.Context, code string, cartTotal int64) (Resolution, error) {
	var c Coupon
	err := r.pool.QueryRow(ctx, `
		SELECT code, amount, min_total, active, expires_at FROM coupons WHERE code=$1
	`, code).Scan(&c.Code, &c.Amount, &c.MinTotal, &c.Active, &c.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Resolution{}, nil
		}
		return Resolution{}, fmt.Errorf("select coupon: %w", err)
	}

	if !c.Active || cartTotal < c.MinTotal {
		return Resolution{}, nil
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return Resolution{}, nil
	}
	return Resolution{Valid: true, Amount: c.Amount}, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT code, amount, min_total, active, expires_at FROM coupons ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("select coupons: %w", err)
	}
	defer rows.Close()

	var coupons []Coupon
	for rows.Next() {
		var c Coupon
		if err := rows.Scan(&c.Code, &c.Amount, &c.MinTotal, &c.Active, &c.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return coupons, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, c *Coupon) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO coupons (code, amount, min_total, active, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code)
		DO UPDATE SET amount=EXCLUDED.amount, min_total=EXCLUDED.min_total,
		              active=EXCLUDED.active, expires_at=EXCLUDED.expires_at
	`, c.Code, c.Amount, c.MinTotal, c.Active, c.ExpiresAt)
	if err != nil {
		return fmt.Errorf("upsert coupon: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE code=$1`, code)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
