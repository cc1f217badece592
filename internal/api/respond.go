package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"kivumart-be/internal/cart"
	"kivumart-be/internal/coupon"
	"kivumart-be/internal/logger"
	"kivumart-be/internal/order"
	"kivumart-be/internal/payment"
	"kivumart-be/internal/product"
	"kivumart-be/internal/returns"
	"kivumart-be/internal/user"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// respondError maps domain errors onto HTTP statuses. Validation-class
// failures keep their message; everything unknown becomes a generic 500
// so internals never leak.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("Request failed", zap.Error(err))
		respondJSON(w, status, errorBody{Error: "something went wrong"})
		return
	}

	respondJSON(w, status, errorBody{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	// not found
	case errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, product.ErrReviewNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, returns.ErrReturnNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, coupon.ErrCouponNotFound):
		return http.StatusNotFound

	// authn / authz
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, cart.ErrUserNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, order.ErrNotOrderOwner):
		return http.StatusForbidden

	// conflicts
	case errors.Is(err, user.ErrEmailExists),
		errors.Is(err, order.ErrAlreadyPaid),
		errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, returns.ErrInvalidTransition),
		errors.Is(err, coupon.ErrAlreadyRedeemed):
		return http.StatusConflict

	// validation
	case errors.Is(err, order.ErrEmptyOrder),
		errors.Is(err, order.ErrInvalidCoupon),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrCartEmpty),
		errors.Is(err, cart.ErrInsufficientStock),
		errors.Is(err, product.ErrInsufficientStock),
		errors.Is(err, product.ErrInvalidRating),
		errors.Is(err, coupon.ErrCouponInactive),
		errors.Is(err, coupon.ErrCouponNotYet),
		errors.Is(err, coupon.ErrCouponExpired),
		errors.Is(err, coupon.ErrBelowMinimum),
		errors.Is(err, coupon.ErrUsageExhausted),
		errors.Is(err, returns.ErrNotReturnable),
		errors.Is(err, returns.ErrWindowClosed),
		errors.Is(err, returns.ErrItemNotInOrder),
		errors.Is(err, returns.ErrQuantityExceeded),
		errors.Is(err, returns.ErrInvalidReason),
		errors.Is(err, payment.ErrInvalidCardNumber),
		errors.Is(err, payment.ErrInvalidExpiry),
		errors.Is(err, payment.ErrInvalidCVC),
		errors.Is(err, payment.ErrInvalidMobileNumber),
		errors.Is(err, payment.ErrUnsupportedMethod),
		errors.Is(err, payment.ErrMissingTransaction):
		return http.StatusBadRequest

	// provider said no; the order stays pending for a retry
	case errors.Is(err, payment.ErrVerificationFailed),
		errors.Is(err, payment.ErrUserCancelled),
		errors.Is(err, payment.ErrWalletNotConnected):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
