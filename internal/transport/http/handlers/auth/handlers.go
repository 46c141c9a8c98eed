package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"appraise/internal/domain/audit"
	domain "appraise/internal/domain/auth"
	"appraise/internal/transport/http/api"
	"appraise/internal/transport/http/middleware"
	"appraise/internal/transport/http/shared"
)

const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 30 * 24 * time.Hour
)

type Handler struct {
	Service     *domain.Service
	Audit       *audit.Service
	JWTSecret   string
	Permissions middleware.PermissionStore
}

func NewHandler(service *domain.Service, auditor *audit.Service, jwtSecret string, permissions middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Audit: auditor, JWTSecret: jwtSecret, Permissions: permissions}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/refresh", h.refresh)
	r.Post("/auth/logout", h.logout)
	r.With(middleware.RequirePermission(domain.PermAppraisalsRead, h.Permissions)).
		Get("/profiles", h.listProfiles)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	Name         string `json:"name"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid request body", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("email", req.Email)
	v.Required("password", req.Password)
	if v.HasIssues() {
		shared.FailValidation(w, v.Issues(), requestID)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := h.Service.FindActiveUserByEmail(r.Context(), email)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}
	if err := domain.CheckPassword(user.Password, req.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
		return
	}

	access, err := domain.GenerateToken(h.JWTSecret, domain.Claims{
		UserID:    user.ID,
		ProfileID: user.ProfileID,
		Role:      user.Role,
		Name:      user.FullName,
	}, accessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not issue token", requestID)
		return
	}

	refresh := uuid.NewString()
	if err := h.Service.CreateSession(r.Context(), user.ID, hashToken(refresh), time.Now().Add(refreshTokenTTL)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not create session", requestID)
		return
	}

	if err := h.Service.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last login failed", "userId", user.ID, "err", err)
	}
	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.ProfileID, audit.ActionAuthLogin, "user", user.ID, requestID, shared.ClientIP(r), nil); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionAuthLogin, "err", err)
		}
	}

	api.Success(w, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Role:         user.Role,
		Name:         user.FullName,
	}, requestID)
}

type refreshRequest struct {
	UserID       string `json:"userId"`
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "bad_request", "invalid request body", requestID)
		return
	}
	if req.UserID == "" || req.RefreshToken == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "userId and refreshToken are required", requestID)
		return
	}

	valid, err := h.Service.SessionValid(r.Context(), req.UserID, hashToken(req.RefreshToken))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not validate session", requestID)
		return
	}
	if !valid {
		api.Fail(w, http.StatusUnauthorized, "invalid_session", "session is expired or revoked", requestID)
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok || user.UserID != req.UserID {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	access, err := domain.GenerateToken(h.JWTSecret, domain.Claims{
		UserID:    user.UserID,
		ProfileID: user.ProfileID,
		Role:      user.Role,
		Name:      user.Name,
	}, accessTokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not issue token", requestID)
		return
	}

	api.Success(w, map[string]string{"accessToken": access}, requestID)
}

type logoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	var req logoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		api.Fail(w, http.StatusBadRequest, "bad_request", "refreshToken is required", requestID)
		return
	}

	if err := h.Service.RevokeSession(r.Context(), user.UserID, hashToken(req.RefreshToken)); err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not revoke session", requestID)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Record(r.Context(), user.ProfileID, audit.ActionAuthLogout, "user", user.UserID, requestID, shared.ClientIP(r), nil); err != nil {
			slog.Warn("audit record failed", "action", audit.ActionAuthLogout, "err", err)
		}
	}

	api.Success(w, map[string]bool{"revoked": true}, requestID)
}

func (h *Handler) listProfiles(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	profiles, err := h.Service.ListProfiles(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not list profiles", requestID)
		return
	}
	api.Success(w, profiles, requestID)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
