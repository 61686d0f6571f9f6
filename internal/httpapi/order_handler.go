package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
)

// OrderService is implemented by *order.Service; handler tests swap in fakes.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, in order.PlacementInput) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID, userID string) error
	GetForUser(ctx context.Context, orderID, userID string) (*order.Order, error)
	ListForUser(ctx context.Context, userID string) ([]order.Order, error)
}

type OrderHandler struct {
	svc OrderService
}

func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type placeOrderRequest struct {
	Shipping      order.ShippingInfo `json:"shipping"`
	PaymentMethod string             `json:"paymentMethod"`
	CouponCode    string             `json:"couponCode"`
}

func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	o, err := h.svc.PlaceOrder(r.Context(), userID(r), order.PlacementInput{
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	o, err := h.svc.GetForUser(r.Context(), orderID, userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListForUser(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "orderId")
	if err := h.svc.CancelOrder(r.Context(), orderID, userID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
