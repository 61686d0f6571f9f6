package review

import (
	"context"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
)

type ProductGetter interface {
	Get(ctx context.Context, productID string) (catalog.Product, error)
}

type Service struct {
	repo     Repository
	products ProductGetter
}

func NewService(repo Repository, products ProductGetter) *Service {
	return &Service{repo: repo, products: products}
}

// Submit gates review creation: valid rating, existing product, no prior
// review by this user, and at least one paid order containing the product.
// New reviews start unapproved and stay off public listings until an admin
// approves them.
func (s *Service) Submit(ctx context.Context, userID, productID string, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsFor(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicate
	}

	paid, err := s.repo.HasPaidPurchase(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, ErrPurchaseRequired
	}

	rv := &Review{
		UserID:    userID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
		Approved:  false,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListApproved(ctx context.Context, productID string) ([]Review, error) {
	return s.repo.ListApproved(ctx, productID)
}

func (s *Service) Summary(ctx context.Context, productID string) (Summary, error) {
	return s.repo.Summary(ctx, productID)
}
