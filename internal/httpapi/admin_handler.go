package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/coupon"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/dashboard"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/review"
)

type CouponStore interface {
	List(ctx context.Context) ([]coupon.Coupon, error)
	Upsert(ctx context.Context, c *coupon.Coupon) error
	Delete(ctx context.Context, code string) error
}

type ReviewModerator interface {
	ListPending(ctx context.Context) ([]review.Review, error)
	Approve(ctx context.Context, reviewID string) error
}

type DashboardStore interface {
	Totals(ctx context.Context) (dashboard.Totals, error)
}

// AdminHandler is the back office: product CRUD, order status corrections,
// coupon management, review moderation, and the sales dashboard.
type AdminHandler struct {
	products catalog.Repository
	orders   order.Repository
	coupons  CouponStore
	reviews  ReviewModerator
	stats    DashboardStore
}

func NewAdminHandler(products catalog.Repository, orders order.Repository,
	coupons CouponStore, reviews ReviewModerator, stats DashboardStore) *AdminHandler {
	return &AdminHandler{
		products: products,
		orders:   orders,
		coupons:  coupons,
		reviews:  reviews,
		stats:    stats,
	}
}

// --- products ---

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), false)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

type productRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Price         int64  `json:"price"`
	DiscountPrice *int64 `json:"discountPrice"`
	Stock         int    `json:"stock"`
	Active        bool   `json:"active"`
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "name, non-negative price and stock required")
		return
	}

	p := catalog.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		Active:        req.Active,
	}
	if err := h.products.Create(r.Context(), &p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "name, non-negative price and stock required")
		return
	}

	p := catalog.Product{
		ID:            productID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		DiscountPrice: req.DiscountPrice,
		Stock:         req.Stock,
		Active:        req.Active,
	}
	if err := h.products.Update(r.Context(), &p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.products.SetActive(r.Context(), productID, false); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- orders ---

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var (
		orders []order.Order
		err    error
	)
	if s := r.URL.Query().Get("status"); s != "" {
		status := order.Status(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, order.ErrInvalidStatus.Error())
			return
		}
		orders, err = h.orders.ListByStatus(r.Context(), status)
	} else {
		now := time.Now().UTC()
		orders, err = h.orders.ListCreatedBetween(r.Context(), now.AddDate(0, -1, 0), now)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus validates enum membership only. Admins may move an order
// to any status for operational corrections; the transition graph is enforced
// solely for user-initiated cancellation.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	status := order.Status(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, order.ErrInvalidStatus.Error())
		return
	}

	if err := h.orders.UpdateStatus(r.Context(), orderID, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *AdminHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	status := order.PaymentStatus(req.Status)
	if !status.Valid() {
		writeError(w, http.StatusBadRequest, order.ErrInvalidStatus.Error())
		return
	}

	if err := h.orders.UpdatePaymentStatus(r.Context(), orderID, status); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- coupons ---

func (h *AdminHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.coupons.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if coupons == nil {
		coupons = []coupon.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *AdminHandler) UpsertCoupon(w http.ResponseWriter, r *http.Request) {
	var c coupon.Coupon
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if c.Code == "" || c.Amount < 0 {
		writeError(w, http.StatusBadRequest, "code and non-negative amount required")
		return
	}

	if err := h.coupons.Upsert(r.Context(), &c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminHandler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.coupons.Delete(r.Context(), code); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- reviews ---

func (h *AdminHandler) ListPendingReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviews.ListPending(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *AdminHandler) ApproveReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewId")
	if err := h.reviews.Approve(r.Context(), reviewID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// --- dashboard ---

func (h *AdminHandler) DashboardTotals(w http.ResponseWriter, r *http.Request) {
	t, err := h.stats.Totals(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *AdminHandler) DashboardSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	granularity := dashboard.GranularityDay
	if q.Get("granularity") == string(dashboard.GranularityMonth) {
		granularity = dashboard.GranularityMonth
	}

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -30)
	to := now
	if granularity == dashboard.GranularityMonth {
		from = now.AddDate(-1, 0, 0)
	}

	var err error
	if v := q.Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date")
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date")
			return
		}
	}

	orders, err := h.orders.ListCreatedBetween(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	buckets := dashboard.Bucketize(orders, from, to, granularity)
	if buckets == nil {
		buckets = []dashboard.Bucket{}
	}
	writeJSON(w, http.StatusOK, buckets)
}
