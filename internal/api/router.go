package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kivumart-be/internal/logger"
	"kivumart-be/internal/middleware"
)

// Router assembles the HTTP surface. Auth is attached globally so
// public routes still see the user when a cookie is present; RequireAuth
// and RequireAdmin gate the protected groups.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.AuthMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/auth/register", h.register)
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)

	r.Get("/products", h.listProducts)
	r.Get("/products/{productID}", h.getProduct)
	r.Get("/products/{productID}/reviews", h.listReviews)
	r.Get("/categories", h.listCategories)

	// browser redirect target from hosted checkout; the provider appends
	// status, tx_ref and transaction_id as query params
	r.Get("/payments/callback", h.paymentCallback)
	if h.Webhook != nil {
		r.Post("/webhooks/flutterwave", h.Webhook.WebhookHandler)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/auth/me", h.me)
		r.Put("/auth/me", h.updateProfile)

		r.Post("/products/{productID}/reviews", h.addReview)
		r.Post("/reviews/{reviewID}/helpful", h.voteReviewHelpful)

		r.Get("/cart", h.getCart)
		r.Post("/cart/items", h.addCartItem)
		r.Put("/cart/items/{productID}", h.updateCartItem)
		r.Delete("/cart/items/{productID}", h.removeCartItem)
		r.Delete("/cart", h.clearCart)
		r.Post("/cart/merge", h.mergeCart)

		r.Post("/coupons/validate", h.validateCoupon)

		r.Post("/orders", h.createOrder)
		r.Get("/orders", h.listOrders)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Post("/orders/{orderID}/pay", h.payOrder)
		r.Post("/orders/{orderID}/finalize", h.finalizeOrder)

		r.Post("/returns", h.createReturn)
		r.Get("/returns", h.listReturns)
		r.Get("/returns/{returnID}", h.getReturn)

		r.Get("/notifications", h.listNotifications)
		r.Put("/notifications/{notificationID}/read", h.markNotificationRead)
		r.Put("/notifications/read-all", h.markAllNotificationsRead)

		if h.Assistant != nil {
			r.Post("/chat", h.Assistant.ChatHandler)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireAdmin)

		r.Post("/categories", h.addCategory)

		r.Get("/admin/orders", h.adminListOrders)
		r.Put("/admin/orders/{orderID}/status", h.adminUpdateOrderStatus)

		r.Get("/admin/returns", h.adminListReturns)
		r.Put("/admin/returns/{returnID}/decision", h.adminDecideReturn)
		r.Post("/admin/returns/{returnID}/complete", h.adminCompleteReturn)
	})

	return r
}
