package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "price", "discount_price", "stock", "active", "created_at", "updated_at",
	})
}

func TestGet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM products WHERE id=\$1`).
		WithArgs("p1").
		WillReturnRows(productRows().AddRow("p1", "RTX 4070", "12GB GDDR6X", int64(9_500_000), nil, 4, true, now, now))

	repo := NewPostgresRepository(mock)
	p, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "RTX 4070", p.Name)
	assert.Equal(t, int64(9_500_000), p.EffectivePrice())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM products WHERE id=\$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)
	_, err = repo.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecrementStockTx(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements when stock suffices", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE\s+products\s+SET stock = stock - \$2`).
			WithArgs("p1", 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		tx, err := mock.Begin(ctx)
		require.NoError(t, err)

		repo := NewPostgresRepository(mock)
		require.NoError(t, repo.DecrementStockTx(ctx, tx, "p1", 2))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports available quantity when short", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE\s+products\s+SET stock = stock - \$2`).
			WithArgs("p1", 5).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT stock FROM products WHERE id=\$1`).
			WithArgs("p1").
			WillReturnRows(pgxmock.NewRows([]string{"stock"}).AddRow(3))

		tx, err := mock.Begin(ctx)
		require.NoError(t, err)

		repo := NewPostgresRepository(mock)
		err = repo.DecrementStockTx(ctx, tx, "p1", 5)

		var stockErr *InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Requested)
		assert.Equal(t, 3, stockErr.Available)
	})

	t.Run("missing product", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE\s+products\s+SET stock = stock - \$2`).
			WithArgs("ghost", 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectQuery(`SELECT stock FROM products WHERE id=\$1`).
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		tx, err := mock.Begin(ctx)
		require.NoError(t, err)

		repo := NewPostgresRepository(mock)
		require.ErrorIs(t, repo.DecrementStockTx(ctx, tx, "ghost", 1), ErrNotFound)
	})
}

func TestIncrementStockTx_NotFound(t *testing.T) {
	ctx := context.Background()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE products SET stock = stock \+ \$2`).
		WithArgs("ghost", 2).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(ctx)
	require.NoError(t, err)

	repo := NewPostgresRepository(mock)
	require.ErrorIs(t, repo.IncrementStockTx(ctx, tx, "ghost", 2), ErrNotFound)
}

func TestSetActive_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`UPDATE products SET active=\$2`).
		WithArgs("ghost", false).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	repo := NewPostgresRepository(mock)
	require.ErrorIs(t, repo.SetActive(context.Background(), "ghost", false), ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEffectivePrice(t *testing.T) {
	lower := int64(80)
	higher := int64(200)

	p := Product{Price: 100}
	assert.Equal(t, int64(100), p.EffectivePrice())

	p.DiscountPrice = &lower
	assert.Equal(t, int64(80), p.EffectivePrice())

	// a "discount" above list price is ignored
	p.DiscountPrice = &higher
	assert.Equal(t, int64(100), p.EffectivePrice())

	equal := int64(100)
	p.DiscountPrice = &equal
	assert.Equal(t, int64(100), p.EffectivePrice())
}
