package notifications

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/notifications"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

type Handler struct {
	Service *notifications.Service
}

func NewHandler(service *notifications.Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/notifications", h.list)
	r.Get("/notifications/unread-count", h.unreadCount)
	r.Post("/notifications/{id}/read", h.markRead)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	limit, offset := shared.ParsePagination(r)
	items, err := h.Service.List(r.Context(), user.Role, limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not list notifications", requestID)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) unreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	count, err := h.Service.CountUnread(r.Context(), user.Role)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not count notifications", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	if err := h.Service.MarkRead(r.Context(), user.Role, chi.URLParam(r, "id")); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not mark notification read", requestID)
		return
	}
	api.Success(w, map[string]bool{"read": true}, requestID)
}
