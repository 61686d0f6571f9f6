package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
)

type CatalogHandler struct {
	repo catalog.Repository
}

func NewCatalogHandler(repo catalog.Repository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context(), true)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	p, err := h.repo.Get(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !p.Active {
		writeError(w, http.StatusNotFound, catalog.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}
