package appraisal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appraise/internal/domain/appraisal"
	"appraise/internal/domain/audit"
	"appraise/internal/domain/auth"
	"appraise/internal/domain/notifications"
	"appraise/internal/platform/metrics"
	"appraise/internal/platform/storage"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

// Auditor and Notifier are the slices of the audit and notification services
// this handler needs. Both are best-effort: failures are logged, never
// returned to the client.
type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, details any) error
}

type Notifier interface {
	NotifyRole(ctx context.Context, role, ntype, title, body string) error
}

type Handler struct {
	Service       *appraisal.Service
	Audit         Auditor
	Notifications Notifier
	Metrics       *metrics.Collector
	Permissions   middleware.PermissionStore
}

func NewHandler(service *appraisal.Service, auditor Auditor, notifier Notifier, collector *metrics.Collector, permissions middleware.PermissionStore) *Handler {
	return &Handler{
		Service:       service,
		Audit:         auditor,
		Notifications: notifier,
		Metrics:       collector,
		Permissions:   permissions,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermAppraisalsRead, h.Permissions)).
		Get("/appraisals", h.list)
	r.With(middleware.RequirePermission(auth.PermAppraisalsRead, h.Permissions)).
		Get("/appraisals/questions", h.questions)
	r.With(middleware.RequirePermission(auth.PermAppraisalsRead, h.Permissions)).
		Get("/appraisals/{id}", h.get)
	r.With(middleware.RequirePermission(auth.PermAppraisalsCreate, h.Permissions)).
		Post("/appraisals", h.submit)
	r.With(middleware.RequirePermission(auth.PermAppraisalsApprove, h.Permissions)).
		Post("/appraisals/{id}/approve", h.approve)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	limit, offset := shared.ParsePagination(r)
	records, err := h.Service.List(r.Context(), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not list appraisals", requestID)
		return
	}
	api.Success(w, records, requestID)
}

func (h *Handler) questions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Service.Questions(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	details, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	api.Success(w, details, requestID)
}

type submitRequest struct {
	EmployeeName     string         `json:"employeeName"`
	Department       string         `json:"department"`
	HODName          string         `json:"hodName"`
	Scores           map[string]int `json:"scores"`
	Comments         string         `json:"comments"`
	SignatureDataURL string         `json:"signatureDataUrl"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("employeeName", req.EmployeeName)
	v.Required("hodName", req.HODName)
	v.Required("department", req.Department)
	v.Enum("department", req.Department, appraisal.Departments)
	v.Required("signatureDataUrl", req.SignatureDataURL)
	if len(req.Scores) == 0 {
		v.Add("scores", "is required")
	}
	if v.HasIssues() {
		shared.FailValidation(w, v.Issues(), requestID)
		return
	}

	signature, err := storage.DecodeDataURL(req.SignatureDataURL)
	if err != nil {
		shared.FailValidation(w, map[string]string{"signatureDataUrl": err.Error()}, requestID)
		return
	}

	record, err := h.Service.Submit(r.Context(), user, appraisal.Submission{
		EmployeeName: req.EmployeeName,
		Department:   req.Department,
		HODName:      req.HODName,
		Scores:       req.Scores,
		Comments:     req.Comments,
		Signature:    signature,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.SubmissionRecorded()
	}
	h.recordAudit(r, user.ProfileID, audit.ActionAppraisalSubmit, record.ID, map[string]string{
		"department": record.Department,
		"status":     record.Status,
	})
	h.notify(r.Context(), auth.RoleHR, notifications.TypeApprovalRequired,
		"Appraisal awaiting HR approval",
		fmt.Sprintf("Appraisal for %s (%s) is awaiting HR approval.", record.EmployeeName, record.Department))

	api.Created(w, record, requestID)
}

type approveRequest struct {
	Comment          string `json:"comment"`
	SignatureDataURL string `json:"signatureDataUrl"`
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var req approveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid request body", requestID)
		return
	}
	if req.SignatureDataURL == "" {
		shared.FailValidation(w, map[string]string{"signatureDataUrl": "is required"}, requestID)
		return
	}

	signature, err := storage.DecodeDataURL(req.SignatureDataURL)
	if err != nil {
		shared.FailValidation(w, map[string]string{"signatureDataUrl": err.Error()}, requestID)
		return
	}

	appraisalID := chi.URLParam(r, "id")
	record, err := h.Service.Approve(r.Context(), user, appraisalID, signature, req.Comment)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	completed := record.Status == appraisal.StatusCompleted
	if h.Metrics != nil {
		h.Metrics.ApprovalRecorded(completed)
	}
	h.recordAudit(r, user.ProfileID, audit.ActionAppraisalApprove, record.ID, map[string]string{
		"role":   user.Role,
		"status": record.Status,
	})

	if completed {
		h.notify(r.Context(), auth.RoleAppraiser, notifications.TypeAppraisalCompleted,
			"Appraisal completed",
			fmt.Sprintf("Appraisal for %s (%s) has completed all approval stages.", record.EmployeeName, record.Department))
	} else if nextRole, ok := appraisal.RequiredRole(record.Status); ok {
		h.notify(r.Context(), nextRole, notifications.TypeApprovalRequired,
			"Appraisal awaiting your approval",
			fmt.Sprintf("Appraisal for %s (%s) is awaiting %s approval.", record.EmployeeName, record.Department, auth.RoleNames[nextRole]))
	}

	api.Success(w, record, requestID)
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())

	switch {
	case errors.Is(err, appraisal.ErrValidation):
		api.Fail(w, http.StatusBadRequest, "validation_failed", err.Error(), requestID)
	case errors.Is(err, appraisal.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", err.Error(), requestID)
	case errors.Is(err, appraisal.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "appraisal not found", requestID)
	case errors.Is(err, appraisal.ErrCompleted):
		api.Fail(w, http.StatusConflict, "workflow_completed", "appraisal has already completed the workflow", requestID)
	case errors.Is(err, appraisal.ErrStaleStatus):
		api.Fail(w, http.StatusConflict, "stale_status", "appraisal status changed, reload and retry", requestID)
	default:
		slog.Error("appraisal request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func (h *Handler) recordAudit(r *http.Request, actorID, action, entityID string, details any) {
	if h.Audit == nil {
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), actorID, action, "appraisal", entityID, requestID, shared.ClientIP(r), details); err != nil {
		slog.Warn("audit record failed", "action", action, "entityId", entityID, "err", err)
	}
}

func (h *Handler) notify(ctx context.Context, role, ntype, title, body string) {
	if h.Notifications == nil {
		return
	}
	if err := h.Notifications.NotifyRole(ctx, role, ntype, title, body); err != nil {
		slog.Warn("notification failed", "role", role, "type", ntype, "err", err)
	}
}
