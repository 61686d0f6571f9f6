package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Orders   *OrderHandler
	Reviews  *ReviewHandler
	Wishlist *WishlistHandler
	Shipping *ShippingHandler
	Admin    *AdminHandler
}

func NewRouter(h Handlers, adminToken string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Catalog.ListProducts)
		r.Get("/products/{productId}", h.Catalog.GetProduct)
		r.Get("/products/{productId}/reviews", h.Reviews.ListReviews)
		r.Get("/products/{productId}/reviews/summary", h.Reviews.ReviewSummary)
		r.Get("/shipping/options", h.Shipping.ListOptions)

		r.Group(func(r chi.Router) {
			r.Use(RequireUser)

			r.Get("/cart", h.Cart.GetCart)
			r.Post("/cart/items", h.Cart.AddItem)
			r.Put("/cart/items/{productId}", h.Cart.SetQuantity)
			r.Delete("/cart/items/{productId}", h.Cart.RemoveItem)
			r.Delete("/cart", h.Cart.ClearCart)

			r.Post("/orders", h.Orders.PlaceOrder)
			r.Get("/orders", h.Orders.ListOrders)
			r.Get("/orders/{orderId}", h.Orders.GetOrder)
			r.Post("/orders/{orderId}/cancel", h.Orders.CancelOrder)

			r.Post("/products/{productId}/reviews", h.Reviews.SubmitReview)

			r.Get("/wishlist", h.Wishlist.List)
			r.Post("/wishlist", h.Wishlist.Add)
			r.Delete("/wishlist/{productId}", h.Wishlist.Remove)
		})
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(RequireAdmin(adminToken))

		r.Get("/products", h.Admin.ListProducts)
		r.Post("/products", h.Admin.CreateProduct)
		r.Put("/products/{productId}", h.Admin.UpdateProduct)
		r.Delete("/products/{productId}", h.Admin.DeactivateProduct)

		r.Get("/orders", h.Admin.ListOrders)
		r.Put("/orders/{orderId}/status", h.Admin.UpdateOrderStatus)
		r.Put("/orders/{orderId}/payment-status", h.Admin.UpdatePaymentStatus)

		r.Get("/coupons", h.Admin.ListCoupons)
		r.Post("/coupons", h.Admin.UpsertCoupon)
		r.Delete("/coupons/{code}", h.Admin.DeleteCoupon)

		r.Get("/reviews/pending", h.Admin.ListPendingReviews)
		r.Put("/reviews/{reviewId}/approve", h.Admin.ApproveReview)

		r.Get("/dashboard/totals", h.Admin.DashboardTotals)
		r.Get("/dashboard/sales", h.Admin.DashboardSales)
	})

	return r
}
