package api

import (
	"errors"
	"net/http"

	"kivumart-be/internal/order"
	"kivumart-be/internal/payment"
	"kivumart-be/internal/utils"
)

type createOrderRequest struct {
	Items          []order.CreateItem    `json:"items"`
	Address        order.ShippingAddress `json:"address"`
	PaymentMethod  payment.Method        `json:"payment_method"`
	CouponCode     string                `json:"coupon_code,omitempty"`
	IdempotencyKey string                `json:"idempotency_key"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body createOrderRequest
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if body.IdempotencyKey == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "idempotency_key is required"})
		return
	}

	o, err := h.Orders.Create(r.Context(), order.CreateParams{
		UserID:         userID,
		Items:          body.Items,
		Address:        body.Address,
		PaymentMethod:  body.PaymentMethod,
		CouponCode:     body.CouponCode,
		IdempotencyKey: body.IdempotencyKey,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, o)
}

type payOrderRequest struct {
	Method payment.Method       `json:"method"`
	Card   *payment.CardDetails `json:"card,omitempty"`
	Phone  string               `json:"phone,omitempty"`
}

type payOrderResponse struct {
	Status        string `json:"status"`
	RedirectLink  string `json:"redirect_link,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	TxRef         string `json:"tx_ref,omitempty"`
}

func (h *Handler) payOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := parseUintParam(r, "orderID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return
	}

	var body payOrderRequest
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	customer := payment.Customer{
		Email: utils.GetUserEmailFromContext(r.Context()),
		Phone: body.Phone,
	}
	if profile, err := h.Users.GetProfile(r.Context(), userID); err == nil {
		customer.Name = profile.Name
		if customer.Phone == "" {
			customer.Phone = profile.Phone
		}
	}

	res, err := h.Orders.Pay(r.Context(), order.PayParams{
		OrderID:  orderID,
		UserID:   userID,
		Method:   body.Method,
		Customer: customer,
		Card:     body.Card,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := payOrderResponse{TxRef: res.OrderRef}
	if res.RedirectLink != "" {
		resp.Status = "redirect"
		resp.RedirectLink = res.RedirectLink
	} else {
		resp.Status = "paid"
		resp.TransactionID = res.TransactionID
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) finalizeOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := parseUintParam(r, "orderID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return
	}

	var body struct {
		TransactionID string `json:"transaction_id"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	o, err := h.Orders.Finalize(r.Context(), orderID, userID, body.TransactionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

// paymentCallback handles the browser redirect back from hosted
// checkout. A cancel is answered 200 so the storefront can offer a
// retry; the order itself is untouched.
func (h *Handler) paymentCallback(w http.ResponseWriter, r *http.Request) {
	params, err := payment.ParseCallback(r.URL.Query())
	if errors.Is(err, payment.ErrUserCancelled) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "cancelled",
			"tx_ref": params.TxRef,
		})
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}

	if params.Status != "successful" {
		// provider reported a failure; the order stays pending so the
		// customer can retry
		_ = h.Orders.RecordPaymentFailure(r.Context(), params.TxRef)
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "failed",
			"tx_ref": params.TxRef,
		})
		return
	}

	o, err := h.Orders.FinalizeByTxRef(r.Context(), params.TxRef, params.TransactionID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "paid", "order": o})
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.Orders.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orderID, err := parseUintParam(r, "orderID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return
	}

	o, err := h.Orders.Get(r.Context(), orderID, userID, utils.IsAdmin(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handler) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := parseUintParam(r, "orderID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid order id"})
		return
	}

	var body struct {
		Status         order.Status `json:"status"`
		TrackingNumber *string      `json:"tracking_number,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if !body.Status.Valid() {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "unknown order status"})
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), orderID, body.Status, body.TrackingNumber)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, o)
}
