package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Davi09-8/chipset-komputer-sub000/internal/catalog"
)

type fakeRepo struct {
	reviews   map[string]bool // userID|productID
	paid      map[string]bool
	created   []*Review
	approveID string
}

func key(userID, productID string) string { return userID + "|" + productID }

func (f *fakeRepo) Create(ctx context.Context, rv *Review) error {
	f.created = append(f.created, rv)
	f.reviews[key(rv.UserID, rv.ProductID)] = true
	return nil
}

func (f *fakeRepo) ExistsFor(ctx context.Context, userID, productID string) (bool, error) {
	return f.reviews[key(userID, productID)], nil
}

func (f *fakeRepo) HasPaidPurchase(ctx context.Context, userID, productID string) (bool, error) {
	return f.paid[key(userID, productID)], nil
}

func (f *fakeRepo) Approve(ctx context.Context, reviewID string) error {
	f.approveID = reviewID
	return nil
}

func (f *fakeRepo) ListApproved(ctx context.Context, productID string) ([]Review, error) {
	return nil, nil
}

func (f *fakeRepo) ListPending(ctx context.Context) ([]Review, error) { return nil, nil }

func (f *fakeRepo) Summary(ctx context.Context, productID string) (Summary, error) {
	return Summary{}, nil
}

type fakeProducts struct {
	known map[string]bool
}

func (f *fakeProducts) Get(ctx context.Context, productID string) (catalog.Product, error) {
	if !f.known[productID] {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return catalog.Product{ID: productID, Active: true}, nil
}

func newReviewFixture() (*Service, *fakeRepo) {
	repo := &fakeRepo{
		reviews: map[string]bool{},
		paid:    map[string]bool{key("user-1", "prod-a"): true},
	}
	products := &fakeProducts{known: map[string]bool{"prod-a": true}}
	return NewService(repo, products), repo
}

func TestSubmit_Success(t *testing.T) {
	svc, repo := newReviewFixture()

	rv, err := svc.Submit(context.Background(), "user-1", "prod-a", 5, "solid card, runs cool")
	require.NoError(t, err)
	assert.False(t, rv.Approved, "new reviews start unapproved")
	assert.Equal(t, 5, rv.Rating)
	require.Len(t, repo.created, 1)
}

func TestSubmit_InvalidRating(t *testing.T) {
	svc, _ := newReviewFixture()

	for _, rating := range []int{0, -1, 6} {
		_, err := svc.Submit(context.Background(), "user-1", "prod-a", rating, "")
		require.ErrorIs(t, err, ErrInvalidRating)
	}
}

func TestSubmit_UnknownProduct(t *testing.T) {
	svc, _ := newReviewFixture()

	_, err := svc.Submit(context.Background(), "user-1", "prod-x", 4, "")
	require.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestSubmit_Duplicate(t *testing.T) {
	svc, _ := newReviewFixture()

	_, err := svc.Submit(context.Background(), "user-1", "prod-a", 4, "first")
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "user-1", "prod-a", 4, "second")
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestSubmit_PurchaseRequired(t *testing.T) {
	svc, repo := newReviewFixture()

	_, err := svc.Submit(context.Background(), "user-2", "prod-a", 4, "")
	require.ErrorIs(t, err, ErrPurchaseRequired)
	assert.Empty(t, repo.created)
}
