package reports

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/appraisal"
	"appraise/internal/domain/auth"
	"appraise/internal/domain/reports"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
)

type Handler struct {
	Service     *reports.Service
	Permissions middleware.PermissionStore
}

func NewHandler(service *reports.Service, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermReportsRead, h.Permissions)).
		Get("/reports/departments", h.departments)
	r.With(middleware.RequirePermission(auth.PermReportsRead, h.Permissions)).
		Get("/reports/pending", h.pending)
	r.With(middleware.RequirePermission(auth.PermAppraisalsRead, h.Permissions)).
		Get("/appraisals/{id}/pdf", h.appraisalPDF)
}

func (h *Handler) departments(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	stats, err := h.Service.DepartmentSummary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not build department summary", requestID)
		return
	}
	api.Success(w, stats, requestID)
}

func (h *Handler) pending(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	counts, err := h.Service.PendingByStatus(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not count pending appraisals", requestID)
		return
	}
	api.Success(w, counts, requestID)
}

func (h *Handler) appraisalPDF(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	appraisalID := chi.URLParam(r, "id")
	pdf, err := h.Service.AppraisalPDF(r.Context(), appraisalID)
	if err != nil {
		if errors.Is(err, appraisal.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "not_found", "appraisal not found", requestID)
			return
		}
		slog.Error("pdf render failed", "appraisalId", appraisalID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not render pdf", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=appraisal-%s.pdf", appraisalID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("pdf write failed", "appraisalId", appraisalID, "err", err)
	}
}
