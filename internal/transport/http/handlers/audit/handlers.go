package audit

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/audit"
	"appraise/internal/domain/auth"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

type Handler struct {
	Service     *audit.Service
	Permissions middleware.PermissionStore
}

func NewHandler(service *audit.Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAuditRead, h.Permissions)).
		Get("/audit", h.list)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	filter := audit.Filter{
		Action:     r.URL.Query().Get("action"),
		EntityType: r.URL.Query().Get("entityType"),
		ActorID:    r.URL.Query().Get("actorId"),
	}
	includeDetails := r.URL.Query().Get("includeDetails") == "true"
	limit, offset := shared.ParsePagination(r)

	total, err := h.Service.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not count audit events", requestID)
		return
	}
	events, err := h.Service.List(r.Context(), filter, includeDetails, limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not list audit events", requestID)
		return
	}

	api.Success(w, map[string]any{
		"total":  total,
		"events": events,
	}, requestID)
}
