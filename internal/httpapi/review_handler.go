package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/review"
)

type ReviewService interface {
	Submit(ctx context.Context, userID, productID string, rating int, comment string) (*review.Review, error)
	ListApproved(ctx context.Context, productID string) ([]review.Review, error)
	Summary(ctx context.Context, productID string) (review.Summary, error)
}

type ReviewHandler struct {
	svc ReviewService
}

func NewReviewHandler(svc ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req submitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	rv, err := h.svc.Submit(r.Context(), userID(r), productID, req.Rating, req.Comment)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	reviews, err := h.svc.ListApproved(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if reviews == nil {
		reviews = []review.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) ReviewSummary(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	s, err := h.svc.Summary(r.Context(), productID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
