package api

import (
	"net/http"

	"kivumart-be/internal/notification"
	"kivumart-be/internal/utils"
)

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	items, err := h.Notifications.List(r.Context(), userID, unreadOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if items == nil {
		items = []*notification.Notification{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	id, err := parseUintParam(r, "notificationID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "invalid notification id"})
		return
	}

	if err := h.Notifications.MarkRead(r.Context(), id, userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	if err := h.Notifications.MarkAllRead(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
