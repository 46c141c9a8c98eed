package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"appraise/internal/domain/auth"
)

func TestRequestIDGenerated(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if captured == "" {
		t.Fatal("expected a generated request id in context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != captured {
		t.Fatalf("header %q does not match context value %q", got, captured)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if captured != "req-123" {
		t.Fatalf("expected caller-provided id, got %q", captured)
	}
}

func TestAuthAttachesUser(t *testing.T) {
	token, err := auth.GenerateToken("test-secret", auth.Claims{
		UserID:    "user-1",
		ProfileID: "profile-1",
		Role:      auth.RoleHR,
		Name:      "HR Manager",
	}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var user auth.UserContext
	var ok bool
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok = GetUser(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !ok {
		t.Fatal("expected user in context")
	}
	if user.UserID != "user-1" || user.Role != auth.RoleHR {
		t.Fatalf("unexpected user context: %+v", user)
	}
}

func TestAuthIgnoresBadToken(t *testing.T) {
	var ok bool
	handler := Auth("test-secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ok {
		t.Fatal("did not expect user in context for an invalid token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("invalid token should pass through anonymously, got %d", rec.Code)
	}
}

func TestRequirePermission(t *testing.T) {
	perms := auth.Permissions{}
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequirePermission(auth.PermAppraisalsApprove, perms)(next)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous request should be 401, got %d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", Role: auth.RoleAppraiser}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("appraiser approving should be 403, got %d", rec.Code)
	}

	req = httptest.NewRequest("POST", "/", nil)
	req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: "u", Role: auth.RoleHR}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("hr approving should pass through, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(2, time.Minute)(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.5:1000"
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d should pass, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:1000"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on limited response")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.6:1000"
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("different client should not be limited, got %d", rec.Code)
	}
}

func TestRateLimitKeyedByUser(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RateLimit(1, time.Minute)(next)

	for _, userID := range []string{"user-a", "user-b"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.7:1000"
		req = req.WithContext(WithUser(req.Context(), auth.UserContext{UserID: userID, Role: auth.RoleHR}))
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("first request for %s should pass, got %d", userID, rec.Code)
		}
	}
}
