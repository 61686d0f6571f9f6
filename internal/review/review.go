package review

import (
	"errors"
	"time"
)

var (
	ErrInvalidRating    = errors.New("rating must be between 1 and 5")
	ErrDuplicate        = errors.New("user already reviewed this product")
	ErrPurchaseRequired = errors.New("reviews require a paid order containing the product")
	ErrNotFound         = errors.New("review not found")
)

type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	ProductID string    `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary aggregates approved reviews for a product.
type Summary struct {
	AverageRating float64 `json:"averageRating"`
	TotalCount    int     `json:"totalCount"`
}
