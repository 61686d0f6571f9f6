package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrNotFound = errors.New("product not found")

// InsufficientStockError reports the product that blocked a stock decrement so
// the caller can tell the user how many units are actually left.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

type Repository interface {
	Get(ctx context.Context, productID string) (Product, error)
	List(ctx context.Context, activeOnly bool) ([]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	SetActive(ctx context.Context, productID string, active bool) error

	// Tx-scoped variants, used inside the order placement/cancellation
	// transaction.
	GetTx(ctx context.Context, tx pgx.Tx, productID string) (Product, error)
	DecrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error
	IncrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = `id, name, description, price, discount_price, stock, active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
		&p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("scan product: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, productID string) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)
	return scanProduct(row)
}

func (r *PostgresRepository) GetTx(ctx context.Context, tx pgx.Tx, productID string) (Product, error) {
	row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, productID)
	return scanProduct(row)
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	if activeOnly {
		q = `SELECT ` + productColumns + ` FROM products WHERE active ORDER BY created_at DESC`
	}

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.DiscountPrice,
			&p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return products, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO products (id, name, description, price, discount_price, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.Stock, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *Product) error {
	p.UpdatedAt = time.Now().UTC()

	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET name=$2, description=$3, price=$4, discount_price=$5, stock=$6, active=$7, updated_at=$8
		WHERE id=$1
	`, p.ID, p.Name, p.Description, p.Price, p.DiscountPrice, p.Stock, p.Active, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) SetActive(ctx context.Context, productID string, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET active=$2, updated_at=now() WHERE id=$1`, productID, active)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStockTx performs the conditional decrement: the stock predicate is
// evaluated atomically with the write, so two concurrent orders can never both
// take the last units. Zero rows affected means the product is gone or short;
// the follow-up read only produces the error detail.
func (r *PostgresRepository) DecrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at=now()
		WHERE id=$1 AND stock >= $2
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var available int
	err = tx.QueryRow(ctx, `SELECT stock FROM products WHERE id=$1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("read stock: %w", err)
	}
	return &InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
}

func (r *PostgresRepository) IncrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at=now() WHERE id=$1
	`, productID, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
