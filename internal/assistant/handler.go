package assistant

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"kivumart-be/internal/logger"
)

type Chatter interface {
	Chat(ctx context.Context, messages []Message, storeContext string) (string, error)
}

type Handler struct {
	client Chatter
}

func NewHandler(client Chatter) *Handler {
	return &Handler{client: client}
}

type chatRequest struct {
	Messages []Message `json:"messages"`
	Context  string    `json:"context,omitempty"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type chatError struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(chatError{Message: "invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(chatError{Message: "messages must not be empty"})
		return
	}

	reply, err := h.client.Chat(r.Context(), req.Messages, req.Context)
	if err != nil {
		logger.FromCtx(r.Context()).Error("Assistant chat failed", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(chatError{
			Message: "assistant is unavailable right now",
			Details: err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(chatResponse{Message: reply})
}
