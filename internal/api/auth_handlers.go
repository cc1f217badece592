package api

import (
	"net/http"

	"kivumart-be/internal/user"
	"kivumart-be/internal/utils"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}
	if body.Email == "" || len(body.Password) < 8 {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "email and a password of at least 8 characters are required"})
		return
	}

	u, token, err := h.Users.Register(r.Context(), user.RegisterParams{
		Email:    body.Email,
		Password: body.Password,
		Name:     body.Name,
		Phone:    body.Phone,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	setAccessCookie(w, token)
	respondJSON(w, http.StatusCreated, toUserResponse(u))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	u, token, err := h.Users.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	setAccessCookie(w, token)
	respondJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	clearAccessCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	profile, err := h.Users.GetProfile(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"id":      userID,
		"email":   utils.GetUserEmailFromContext(r.Context()),
		"role":    utils.GetUserRoleFromContext(r.Context()),
		"profile": profile,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var body struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body"})
		return
	}

	p := &user.Profile{
		UserID:  userID,
		Name:    body.Name,
		Phone:   body.Phone,
		City:    body.City,
		Country: body.Country,
	}
	if err := h.Users.UpdateProfile(r.Context(), p); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}
