package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/cart"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
)

type CartHandler struct {
	carts    cart.Repository
	products catalog.Repository
}

func NewCartHandler(carts cart.Repository, products catalog.Repository) *CartHandler {
	return &CartHandler{carts: carts, products: products}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	lines, err := h.carts.ListLines(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if lines == nil {
		lines = []cart.Line{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" || req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "productId and quantity >= 1 required")
		return
	}

	// Inactive products cannot enter a cart; order placement re-checks anyway.
	p, err := h.products.Get(r.Context(), req.ProductID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !p.Active {
		writeError(w, http.StatusBadRequest, "product is not available")
		return
	}

	if err := h.carts.AddLine(r.Context(), userID(r), req.ProductID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be >= 1")
		return
	}

	if err := h.carts.SetQuantity(r.Context(), userID(r), productID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.carts.RemoveLine(r.Context(), userID(r), productID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), userID(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
