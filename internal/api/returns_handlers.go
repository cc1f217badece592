package api

import (
	"net/http"

	"kivumart-be/internal/returns"
	"kivumart-be/internal/utils"
)

func (h *Handler) createReturn(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body struct {
		OrderID     uint           `json:"order_id"`
		ProductID   uint           `json:"product_id"`
		Quantity    int32          `json:"quantity"`
		Reason      returns.Reason `json:"reason"`
		Description *string        `json:"description,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil || body.OrderID == 0 || body.ProductID == 0 {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "order_id, product_id, quantity and reason are required"})
		return
	}

	req, err := h.Returns.Create(r.Context(), returns.CreateParams{
		OrderID:     body.OrderID,
		ProductID:   body.ProductID,
		UserID:      userID,
		Quantity:    body.Quantity,
		Reason:      body.Reason,
		Description: body.Description,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, req)
}

func (h *Handler) listReturns(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	reqs, err := h.Returns.List(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []*returns.ReturnRequest{}
	}
	respondJSON(w, http.StatusOK, reqs)
}

func (h *Handler) getReturn(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	requestID, err := parseUintParam(r, "returnID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid return id"})
		return
	}

	req, err := h.Returns.Get(r.Context(), requestID, userID, utils.IsAdmin(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (h *Handler) adminListReturns(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Returns.ListAll(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	if reqs == nil {
		reqs = []*returns.ReturnRequest{}
	}
	respondJSON(w, http.StatusOK, reqs)
}

func (h *Handler) adminDecideReturn(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUintParam(r, "returnID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid return id"})
		return
	}

	var body struct {
		Status       returns.Status `json:"status"`
		RefundAmount *int64         `json:"refund_amount,omitempty"`
		AdminNotes   *string        `json:"admin_notes,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	req, err := h.Returns.Decide(r.Context(), returns.DecisionParams{
		RequestID:    requestID,
		Status:       body.Status,
		RefundAmount: body.RefundAmount,
		AdminNotes:   body.AdminNotes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (h *Handler) adminCompleteReturn(w http.ResponseWriter, r *http.Request) {
	requestID, err := parseUintParam(r, "returnID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid return id"})
		return
	}

	req, err := h.Returns.Complete(r.Context(), requestID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, req)
}
