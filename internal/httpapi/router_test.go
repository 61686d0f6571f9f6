package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testRouter() http.Handler {
	return NewRouter(Handlers{
		Catalog:  NewCatalogHandler(nil),
		Cart:     NewCartHandler(nil, nil),
		Orders:   NewOrderHandler(&fakeOrderService{}),
		Reviews:  NewReviewHandler(nil),
		Wishlist: NewWishlistHandler(nil),
		Shipping: NewShippingHandler(nil),
		Admin:    NewAdminHandler(nil, nil, nil, nil, nil),
	}, "sekret")
}

func TestHealth(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestUserRoutesRequireIdentity(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestUserRoutesAcceptIdentityHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("X-User-ID", "user-1")

	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/admin/api/coupons", nil)

	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	req.Header.Set("X-Admin-Token", "wrong")
	rr = httptest.NewRecorder()
	testRouter().ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAdminRejectsWhenTokenUnset(t *testing.T) {
	// an unset server token must not open the back office
	router := NewRouter(Handlers{
		Catalog:  NewCatalogHandler(nil),
		Cart:     NewCartHandler(nil, nil),
		Orders:   NewOrderHandler(&fakeOrderService{}),
		Reviews:  NewReviewHandler(nil),
		Wishlist: NewWishlistHandler(nil),
		Shipping: NewShippingHandler(nil),
		Admin:    NewAdminHandler(nil, nil, nil, nil, nil),
	}, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/api/coupons", nil)
	req.Header.Set("X-Admin-Token", "")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
