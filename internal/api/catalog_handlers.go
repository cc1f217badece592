package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"kivumart-be/internal/coupon"
	"kivumart-be/internal/product"
	"kivumart-be/internal/utils"
)

func parseUintParam(r *http.Request, name string) (uint, error) {
	return utils.ToUint(chi.URLParam(r, name))
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter product.ListFilter
	if v := q.Get("category_id"); v != "" {
		if id, err := utils.ToUint(v); err == nil {
			filter.CategoryID = &id
		}
	}
	if v := q.Get("featured"); v != "" {
		b := v == "true"
		filter.Featured = &b
	}
	if v := q.Get("new"); v != "" {
		b := v == "true"
		filter.New = &b
	}
	if v := q.Get("in_stock"); v != "" {
		b := v == "true"
		filter.InStock = &b
	}
	if v := q.Get("search"); v != "" {
		filter.Search = &v
	}

	var sort *product.ListSort
	if field := q.Get("sort"); field != "" {
		sort = &product.ListSort{Field: field, Ascending: q.Get("order") != "desc"}
	}

	limit, page := parsePaging(q.Get("limit"), q.Get("page"))

	products, err := h.Products.ListProducts(r.Context(), &filter, sort, limit, page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func parsePaging(limitStr, pageStr string) (limit, page *uint16) {
	if n, err := strconv.ParseUint(limitStr, 10, 16); err == nil && n > 0 {
		v := uint16(n)
		limit = &v
	}
	if n, err := strconv.ParseUint(pageStr, 10, 16); err == nil && n > 0 {
		v := uint16(n)
		page = &v
	}
	return limit, page
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "productID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}

	p, err := h.Products.GetProduct(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handler) listReviews(w http.ResponseWriter, r *http.Request) {
	id, err := parseUintParam(r, "productID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}

	reviews, err := h.Products.GetReviews(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	productID, err := parseUintParam(r, "productID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid product id"})
		return
	}

	var body struct {
		Rating  int32  `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	review, err := h.Products.AddReview(r.Context(), userID, productID, body.Rating, body.Comment)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, review)
}

func (h *Handler) voteReviewHelpful(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	reviewID, err := parseUintParam(r, "reviewID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid review id"})
		return
	}

	if err := h.Products.MarkReviewHelpful(r.Context(), reviewID, userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter *string
	if v := q.Get("filter"); v != "" {
		filter = &v
	}

	var limit, page *int32
	if n, err := strconv.ParseInt(q.Get("limit"), 10, 32); err == nil && n > 0 {
		v := int32(n)
		limit = &v
	}
	if n, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil && n > 0 {
		v := int32(n)
		page = &v
	}

	categories, err := h.Categories.GetCategories(r.Context(), filter, limit, page)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) addCategory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &body); err != nil || body.Name == "" {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "category name is required"})
		return
	}

	c, err := h.Categories.AddCategory(r.Context(), body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) validateCoupon(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     string            `json:"code"`
		Subtotal int64             `json:"subtotal"`
		Items    []coupon.LineItem `json:"items"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	_, validation, err := h.Coupons.Validate(r.Context(), body.Code, body.Subtotal, body.Items)
	if err != nil {
		// invalid coupons answer 200 with valid=false so checkout can
		// show the message inline
		respondJSON(w, http.StatusOK, coupon.Validation{Valid: false, Message: err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, validation)
}
