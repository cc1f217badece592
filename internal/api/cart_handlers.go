package api

import (
	"net/http"

	"kivumart-be/internal/cart"
	"kivumart-be/internal/utils"
)

type cartResponse struct {
	Items    []*cart.CartItem `json:"items"`
	Subtotal int64            `json:"subtotal"`
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	items, subtotal, err := h.Carts.GetCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []*cart.CartItem{}
	}
	respondJSON(w, http.StatusOK, cartResponse{Items: items, Subtotal: subtotal})
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body struct {
		ProductID uint  `json:"product_id"`
		Quantity  int32 `json:"quantity"`
	}
	if err := decodeBody(r, &body); err != nil || body.ProductID == 0 {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "product_id and quantity are required"})
		return
	}
	if body.Quantity <= 0 {
		body.Quantity = 1
	}

	item, err := h.Carts.AddItem(r.Context(), cart.AddParams{
		UserID:    userID,
		ProductID: body.ProductID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := parseUintParam(r, "productID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}

	var body struct {
		Quantity int32 `json:"quantity"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	// a quantity of zero or less removes the line
	if err := h.Carts.UpdateQuantity(r.Context(), cart.UpdateParams{
		UserID:    userID,
		ProductID: productID,
		Quantity:  body.Quantity,
	}); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := parseUintParam(r, "productID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}

	if err := h.Carts.RemoveItem(r.Context(), cart.RemoveParams{UserID: userID, ProductID: productID}); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.Carts.ClearCart(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) mergeCart(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body struct {
		Items    []cart.GuestItem   `json:"items"`
		Strategy cart.MergeStrategy `json:"strategy,omitempty"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if body.Strategy == "" {
		body.Strategy = cart.MergeAdditive
	}

	items, err := h.Carts.MergeGuestCart(r.Context(), userID, body.Items, body.Strategy)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []*cart.CartItem{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}
