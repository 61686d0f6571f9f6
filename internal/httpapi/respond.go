package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/cart"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/coupon"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/order"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/review"
	"github.com/Davi09-8/chipset-komputer-sub000/internal/wishlist"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps domain errors to HTTP statuses. Every known error
// carries a human-readable message; anything unknown is a generic 500 so
// internals never leak to the client.
func writeDomainError(w http.ResponseWriter, err error) {
	var (
		stockErr      *catalog.InsufficientStockError
		inactiveErr   *order.ProductInactiveError
		validationErr *order.ValidationError
	)

	switch {
	case errors.As(err, &stockErr):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":     stockErr.Error(),
			"productId": stockErr.ProductID,
			"requested": stockErr.Requested,
			"available": stockErr.Available,
		})
	case errors.As(err, &inactiveErr), errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, review.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, review.ErrDuplicate):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, review.ErrPurchaseRequired):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, cart.ErrNotFound),
		errors.Is(err, review.ErrNotFound),
		errors.Is(err, coupon.ErrNotFound),
		errors.Is(err, wishlist.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
