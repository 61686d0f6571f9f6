package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Totals is the headline card row on the admin landing page.
type Totals struct {
	Orders        int   `json:"orders"`
	PendingOrders int   `json:"pendingOrders"`
	Products      int   `json:"products"`
	PaidRevenue   int64 `json:"paidRevenue"`
}

// DBPool matches the methods from *pgxpool.Pool that we use.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status='PENDING'),
			(SELECT COUNT(*) FROM products),
			(SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE payment_status='PAID')
	`).Scan(&t.Orders, &t.PendingOrders, &t.Products, &t.PaidRevenue)
	if err != nil {
		return Totals{}, fmt.Errorf("dashboard totals: %w", err)
	}
	return t, nil
}
