package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"kivumart-be/internal/logger"
	"kivumart-be/internal/order"
	"kivumart-be/internal/payment"
)

// WebhookPayload represents the JSON Flutterwave sends
type WebhookPayload struct {
	Event string `json:"event"`
	Data  struct {
		ID     json.Number `json:"id"`
		TxRef  string      `json:"tx_ref"`
		Status string      `json:"status"`
		Amount int64       `json:"amount"`
	} `json:"data"`
}

// Handler depends on the order service and payment gateway
type Handler struct {
	OrderSvc order.Service
	Gateway  payment.Gateway
}

func NewWebhookHandler(orderSvc order.Service, gateway payment.Gateway) *Handler {
	return &Handler{
		OrderSvc: orderSvc,
		Gateway:  gateway,
	}
}

// WebhookHandler is the actual route handler
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := h.Gateway.VerifySignature(r); err != nil {
		log.Warn("Rejected webhook with bad signature", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("event", payload.Event),
		zap.String("tx_ref", payload.Data.TxRef),
		zap.String("status", payload.Data.Status),
	)
	log.Info("Webhook received")

	if payload.Event != "charge.completed" {
		// other event classes carry nothing actionable for us
		w.WriteHeader(http.StatusOK)
		return
	}

	switch payload.Data.Status {
	case "successful":
		// finalize re-verifies with the provider; the webhook body
		// alone is never trusted
		_, err = h.OrderSvc.FinalizeByTxRef(r.Context(), payload.Data.TxRef, payload.Data.ID.String())
	case "failed":
		err = h.OrderSvc.RecordPaymentFailure(r.Context(), payload.Data.TxRef)
	default:
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Error("Failed handling webhook", zap.Error(err))
		http.Error(w, "failed to update order", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
