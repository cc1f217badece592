package api

import (
	"net/http"
	"time"

	"kivumart-be/internal/assistant"
	"kivumart-be/internal/cart"
	"kivumart-be/internal/category"
	"kivumart-be/internal/coupon"
	"kivumart-be/internal/notification"
	"kivumart-be/internal/order"
	"kivumart-be/internal/payment/webhook"
	"kivumart-be/internal/product"
	"kivumart-be/internal/returns"
	"kivumart-be/internal/user"
)

// Handler carries every domain service the HTTP surface exposes.
type Handler struct {
	Users         user.Service
	Products      product.Service
	Categories    category.Service
	Carts         cart.Service
	Coupons       coupon.Service
	Orders        order.Service
	Returns       returns.Service
	Notifications notification.Service
	Webhook       *webhook.Handler
	Assistant     *assistant.Handler
}

// accessTokenTTL matches the JWT expiry set at issue time.
const accessTokenTTL = 24 * time.Hour

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(accessTokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAccessCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
