package order

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/cart"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/coupon"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/shipping"
)

// Pickup orders carry the store's own address instead of user input.
const (
	storeName       = "Chipset Komputer"
	storePhone      = "021-5550123"
	storeAddress    = "Jl. Mangga Dua Raya No. 8, Harco Mangga Dua Lt. 2 Blok C"
	storeCity       = "Jakarta Utara"
	storePostalCode = "14430"
)

// CatalogStore is the slice of the catalog the order core needs. All methods
// run inside the placement/cancellation transaction.
type CatalogStore interface {
	GetTx(ctx context.Context, tx pgx.Tx, productID string) (catalog.Product, error)
	DecrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error
	IncrementStockTx(ctx context.Context, tx pgx.Tx, productID string, qty int) error
}

type CartStore interface {
	ListLines(ctx context.Context, userID string) ([]cart.Line, error)
	ClearTx(ctx context.Context, tx pgx.Tx, userID string) error
}

type ShippingRater interface {
	Quote(code string) (int64, error)
}

// EventPublisher gets the outcome after the transaction commits; publishing is
// best effort and never part of the transaction.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o *Order) error
	PublishOrderCancelled(ctx context.Context, o *Order) error
}

type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PlacementInput struct {
	Shipping      ShippingInfo
	PaymentMethod string
	CouponCode    string
}

type Service struct {
	pool      TxBeginner
	orders    Repository
	products  CatalogStore
	carts     CartStore
	coupons   coupon.Resolver
	rates     ShippingRater
	publisher EventPublisher
	logger    *log.Logger

	newNumber func() string
}

// NewService wires the order core. publisher may be nil.
func NewService(pool TxBeginner, orders Repository, products CatalogStore, carts CartStore,
	coupons coupon.Resolver, rates ShippingRater, publisher EventPublisher, logger *log.Logger) *Service {
	return &Service{
		pool:      pool,
		orders:    orders,
		products:  products,
		carts:     carts,
		coupons:   coupons,
		rates:     rates,
		publisher: publisher,
		logger:    logger,
		newNumber: newOrderNumber,
	}
}

// newOrderNumber is collision resistant, not strictly sequential; the unique
// index on orders.order_number is the hard guarantee.
func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD-" + time.Now().UTC().Format("20060102150405") + "-" + suffix
}

// PlaceOrder turns the user's cart into exactly one order. Order + lines,
// stock decrements, and the cart delete commit together or not at all.
func (s *Service) PlaceOrder(ctx context.Context, userID string, in PlacementInput) (*Order, error) {
	info, err := normalizeShipping(in.Shipping)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		return nil, &ValidationError{Field: "paymentMethod"}
	}

	shippingCost, err := s.rates.Quote(info.Service)
	if err != nil {
		return nil, &ValidationError{Field: "shippingService"}
	}

	cartLines, err := s.carts.ListLines(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	if len(cartLines) == 0 {
		return nil, ErrEmptyCart
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		lines     []Line
		lineTotal int64
	)
	for _, cl := range cartLines {
		p, err := s.products.GetTx(ctx, tx, cl.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.Active {
			return nil, &ProductInactiveError{ProductID: p.ID}
		}

		// Conditional decrement; the stock predicate is checked atomically
		// with the write, so a concurrent order cannot slip between a check
		// and an unconditional update.
		if err := s.products.DecrementStockTx(ctx, tx, cl.ProductID, cl.Quantity); err != nil {
			return nil, err
		}

		unit := p.EffectivePrice()
		lines = append(lines, Line{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    cl.Quantity,
			UnitPrice:   unit,
		})
		lineTotal += unit * int64(cl.Quantity)
	}

	var discount int64
	if in.CouponCode != "" {
		res, err := s.coupons.Resolve(ctx, in.CouponCode, lineTotal)
		if err != nil {
			return nil, fmt.Errorf("resolve coupon: %w", err)
		}
		if res.Valid {
			discount = res.Amount
		}
	}

	total := lineTotal + shippingCost - discount
	if total < 0 {
		// A discount can never push the payable amount below zero.
		total = 0
	}

	o := &Order{
		ID:             uuid.NewString(),
		Number:         s.newNumber(),
		UserID:         userID,
		Status:         StatusPending,
		PaymentStatus:  PaymentUnpaid,
		PaymentMethod:  in.PaymentMethod,
		Lines:          lines,
		TotalAmount:    total,
		ShippingCost:   shippingCost,
		DiscountAmount: discount,
		Shipping:       info,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.orders.CreateTx(ctx, tx, o); err != nil {
		return nil, err
	}
	if err := s.carts.ClearTx(ctx, tx, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
			s.logger.Printf("publish order placed %s: %v", o.ID, err)
		}
	}
	return o, nil
}

// CancelOrder is the mirror of placement: allowed only while PENDING, and the
// status flip plus every per-line stock restoration commit together.
func (s *Service) CancelOrder(ctx context.Context, orderID, userID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	o, err := s.orders.GetForUpdateTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return ErrNotOwner
	}
	if o.Status != StatusPending {
		return ErrInvalidState
	}

	if err := s.orders.SetStatusTx(ctx, tx, orderID, StatusCancelled); err != nil {
		return err
	}
	for _, l := range o.Lines {
		if err := s.products.IncrementStockTx(ctx, tx, l.ProductID, l.Quantity); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if s.publisher != nil {
		o.Status = StatusCancelled
		if err := s.publisher.PublishOrderCancelled(ctx, o); err != nil {
			s.logger.Printf("publish order cancelled %s: %v", o.ID, err)
		}
	}
	return nil
}

func (s *Service) GetForUser(ctx context.Context, orderID, userID string) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotOwner
	}
	return o, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func normalizeShipping(info ShippingInfo) (ShippingInfo, error) {
	if info.Service == "" {
		return ShippingInfo{}, &ValidationError{Field: "shippingService"}
	}

	if info.Service == shipping.ServicePickup {
		return ShippingInfo{
			Name:       storeName,
			Phone:      storePhone,
			Address:    storeAddress,
			City:       storeCity,
			PostalCode: storePostalCode,
			Service:    shipping.ServicePickup,
		}, nil
	}

	for _, f := range []struct {
		name, value string
	}{
		{"name", info.Name},
		{"phone", info.Phone},
		{"address", info.Address},
		{"city", info.City},
		{"postalCode", info.PostalCode},
	} {
		if strings.TrimSpace(f.value) == "" {
			return ShippingInfo{}, &ValidationError{Field: f.name}
		}
	}
	return info, nil
}
