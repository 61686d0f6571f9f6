package integration

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/cart"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/coupon"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/db"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/review"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/shipping"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/testutil"
)

type app struct {
	products *catalog.PostgresRepository
	carts    *cart.PostgresRepository
	orders   *order.PostgresRepository
	coupons  *coupon.PostgresRepository
	reviews  *review.PostgresRepository
	orderSvc *order.Service
	revSvc   *review.Service
}

func shippingInfo() order.ShippingInfo {
	return order.ShippingInfo{
		Name:       "Budi Santoso",
		Phone:      "081234567890",
		Address:    "Jl. Kenanga No. 4",
		City:       "Bandung",
		PostalCode: "40115",
		Service:    "JNE_REG",
	}
}

func TestStorefrontIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	dsn, sqlDB, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	pool, err := db.NewPool(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	logger := log.New(io.Discard, "", 0)

	a := &app{
		products: catalog.NewPostgresRepository(pool),
		carts:    cart.NewPostgresRepository(pool),
		orders:   order.NewPostgresRepository(pool),
		coupons:  coupon.NewPostgresRepository(pool),
		reviews:  review.NewPostgresRepository(pool),
	}
	a.orderSvc = order.NewService(pool, a.orders, a.products, a.carts, a.coupons,
		shipping.DefaultTable(), nil, logger)
	a.revSvc = review.NewService(a.reviews, a.products)

	ryzen := catalog.Product{Name: "Ryzen 5 5600", Price: 10_000, Stock: 5, Active: true}
	require.NoError(t, a.products.Create(ctx, &ryzen))

	t.Run("place order decrements stock and clears cart", func(t *testing.T) {
		require.NoError(t, a.carts.AddLine(ctx, "user-1", ryzen.ID, 2))

		o, err := a.orderSvc.PlaceOrder(ctx, "user-1", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(40_000), o.TotalAmount)

		p, err := a.products.Get(ctx, ryzen.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, p.Stock)

		lines, err := a.carts.ListLines(ctx, "user-1")
		require.NoError(t, err)
		assert.Empty(t, lines)

		var count int
		require.NoError(t, sqlDB.QueryRow(
			`SELECT COUNT(*) FROM order_lines WHERE order_id=$1`, o.ID).Scan(&count))
		assert.Equal(t, 1, count)

		t.Run("cancel restores stock exactly once", func(t *testing.T) {
			require.NoError(t, a.orderSvc.CancelOrder(ctx, o.ID, "user-1"))

			p, err := a.products.Get(ctx, ryzen.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, p.Stock)

			got, err := a.orders.GetByID(ctx, o.ID)
			require.NoError(t, err)
			assert.Equal(t, order.StatusCancelled, got.Status)

			require.ErrorIs(t, a.orderSvc.CancelOrder(ctx, o.ID, "user-1"), order.ErrInvalidState)
		})
	})

	t.Run("placing from an empty cart fails", func(t *testing.T) {
		_, err := a.orderSvc.PlaceOrder(ctx, "user-1", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
		})
		require.ErrorIs(t, err, order.ErrEmptyCart)
	})

	t.Run("insufficient stock rolls the whole order back", func(t *testing.T) {
		require.NoError(t, a.carts.AddLine(ctx, "user-2", ryzen.ID, 9))

		_, err := a.orderSvc.PlaceOrder(ctx, "user-2", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
		})
		var stockErr *catalog.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 5, stockErr.Available)

		// nothing moved: stock intact, cart intact, no order rows
		p, err := a.products.Get(ctx, ryzen.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, p.Stock)

		lines, err := a.carts.ListLines(ctx, "user-2")
		require.NoError(t, err)
		require.Len(t, lines, 1)

		var count int
		require.NoError(t, sqlDB.QueryRow(
			`SELECT COUNT(*) FROM orders WHERE user_id='user-2'`).Scan(&count))
		assert.Equal(t, 0, count)

		require.NoError(t, a.carts.Clear(ctx, "user-2"))
	})

	t.Run("concurrent orders cannot oversell", func(t *testing.T) {
		require.NoError(t, a.carts.AddLine(ctx, "racer-1", ryzen.ID, 3))
		require.NoError(t, a.carts.AddLine(ctx, "racer-2", ryzen.ID, 3))

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i, user := range []string{"racer-1", "racer-2"} {
			i, user := i, user
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = a.orderSvc.PlaceOrder(ctx, user, order.PlacementInput{
					Shipping:      shippingInfo(),
					PaymentMethod: "bank_transfer",
				})
			}()
		}
		wg.Wait()

		var failures int
		for _, err := range errs {
			if err != nil {
				var stockErr *catalog.InsufficientStockError
				require.ErrorAs(t, err, &stockErr)
				failures++
			}
		}
		require.Equal(t, 1, failures, "exactly one of the two orders must lose the race")

		p, err := a.products.Get(ctx, ryzen.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, p.Stock)

		// put the winner's stock back for the remaining subtests
		for _, user := range []string{"racer-1", "racer-2"} {
			orders, err := a.orders.ListByUser(ctx, user)
			require.NoError(t, err)
			for _, o := range orders {
				require.NoError(t, a.orderSvc.CancelOrder(ctx, o.ID, user))
			}
			require.NoError(t, a.carts.Clear(ctx, user))
		}
	})

	t.Run("coupon discount and clamping", func(t *testing.T) {
		gpu := catalog.Product{Name: "RTX 4060 Ti", Price: 675_000, Stock: 10, Active: true}
		require.NoError(t, a.products.Create(ctx, &gpu))

		require.NoError(t, a.coupons.Upsert(ctx, &coupon.Coupon{
			Code: "HEMAT10", Amount: 10_000, Active: true,
		}))

		require.NoError(t, a.carts.AddLine(ctx, "user-3", gpu.ID, 3))
		o, err := a.orderSvc.PlaceOrder(ctx, "user-3", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
			CouponCode:    "HEMAT10",
		})
		require.NoError(t, err)
		// 3 * 675_000 + 20_000 - 10_000
		assert.Equal(t, int64(2_035_000), o.TotalAmount)

		require.NoError(t, a.coupons.Upsert(ctx, &coupon.Coupon{
			Code: "GRATIS", Amount: 100_000_000, Active: true,
		}))
		require.NoError(t, a.carts.AddLine(ctx, "user-3", gpu.ID, 1))
		o, err = a.orderSvc.PlaceOrder(ctx, "user-3", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
			CouponCode:    "GRATIS",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), o.TotalAmount, "discount never drives total below zero")
	})

	t.Run("review gate", func(t *testing.T) {
		ssd := catalog.Product{Name: "WD Black SN850X 1TB", Price: 1_400_000, Stock: 20, Active: true}
		require.NoError(t, a.products.Create(ctx, &ssd))

		_, err := a.revSvc.Submit(ctx, "user-4", ssd.ID, 5, "fast drive")
		require.ErrorIs(t, err, review.ErrPurchaseRequired)

		require.NoError(t, a.carts.AddLine(ctx, "user-4", ssd.ID, 1))
		o, err := a.orderSvc.PlaceOrder(ctx, "user-4", order.PlacementInput{
			Shipping:      shippingInfo(),
			PaymentMethod: "bank_transfer",
		})
		require.NoError(t, err)

		// unpaid orders do not unlock reviews
		_, err = a.revSvc.Submit(ctx, "user-4", ssd.ID, 5, "fast drive")
		require.ErrorIs(t, err, review.ErrPurchaseRequired)

		require.NoError(t, a.orders.UpdatePaymentStatus(ctx, o.ID, order.PaymentPaid))

		rv, err := a.revSvc.Submit(ctx, "user-4", ssd.ID, 5, "fast drive")
		require.NoError(t, err)
		assert.False(t, rv.Approved)

		_, err = a.revSvc.Submit(ctx, "user-4", ssd.ID, 4, "second thoughts")
		require.ErrorIs(t, err, review.ErrDuplicate)

		// invisible until approved
		approved, err := a.revSvc.ListApproved(ctx, ssd.ID)
		require.NoError(t, err)
		assert.Empty(t, approved)

		require.NoError(t, a.reviews.Approve(ctx, rv.ID))
		approved, err = a.revSvc.ListApproved(ctx, ssd.ID)
		require.NoError(t, err)
		require.Len(t, approved, 1)

		summary, err := a.revSvc.Summary(ctx, ssd.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.TotalCount)
		assert.InDelta(t, 5.0, summary.AverageRating, 0.001)
	})

	t.Run("duplicate order numbers are rejected by the store", func(t *testing.T) {
		var constraint string
		err := sqlDB.QueryRow(`
			SELECT conname FROM pg_constraint
			WHERE conrelid = 'orders'::regclass AND contype = 'u'
		`).Scan(&constraint)
		require.NoError(t, err)
		assert.NotEmpty(t, constraint)
	})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test needs docker")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	dsn, _, cleanup := testutil.StartPostgres(ctx, t)
	defer cleanup()

	// StartPostgres already migrated once; a second run must be a no-op
	require.NoError(t, db.RunMigrations(dsn, log.New(io.Discard, "", 0)))
}
