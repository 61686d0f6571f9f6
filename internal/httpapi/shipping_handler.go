package httpapi

import (
	"net/http"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/shipping"
)

type ShippingHandler struct {
	table shipping.FlatRateTable
}

func NewShippingHandler(table shipping.FlatRateTable) *ShippingHandler {
	return &ShippingHandler{table: table}
}

func (h *ShippingHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Options())
}
