package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/wishlist"
)

type WishlistHandler struct {
	repo wishlist.Repository
}

func NewWishlistHandler(repo wishlist.Repository) *WishlistHandler {
	return &WishlistHandler{repo: repo}
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.repo.List(r.Context(), userID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []wishlist.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

type addWishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addWishlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId required")
		return
	}

	if err := h.repo.Add(r.Context(), userID(r), req.ProductID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	if err := h.repo.Remove(r.Context(), userID(r), productID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
