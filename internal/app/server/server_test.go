package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"appraise/internal/domain/appraisal"
	"appraise/internal/platform/config"
)

// TestApprovalJourney runs the whole workflow against a real database:
// login as each role, submit an appraisal, and walk it through every
// approval stage. Set TEST_DATABASE_URL to enable it.
func TestApprovalJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Load()
	cfg.DatabaseURL = dbURL
	cfg.JWTSecret = "journey-test-secret"
	cfg.RunMigrations = true
	cfg.MigrationsDir = "../../../migrations"
	cfg.RunSeed = true
	cfg.SeedPassword = "JourneyTest123!"
	cfg.SignatureDir = t.TempDir()

	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}

	srv := httptest.NewServer(app.Router())
	defer srv.Close()

	login := func(role string) string {
		payload, _ := json.Marshal(map[string]string{
			"email":    role + "@appraise.local",
			"password": cfg.SeedPassword,
		})
		resp, err := http.Post(srv.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
		if err != nil {
			t.Fatalf("login %s: %v", role, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login %s: status %d", role, resp.StatusCode)
		}

		var envelope struct {
			Data struct {
				AccessToken string `json:"accessToken"`
			} `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			t.Fatalf("decode login response: %v", err)
		}
		return envelope.Data.AccessToken
	}

	call := func(method, path, token string, body any) (*http.Response, []byte) {
		var reader *bytes.Reader
		if body != nil {
			payload, err := json.Marshal(body)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(payload)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequest(method, srv.URL+path, reader)
		if err != nil {
			t.Fatalf("build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s: %v", method, path, err)
		}
		defer resp.Body.Close()

		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return resp, buf.Bytes()
	}

	signature := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("journey-signature"))
	scores := map[string]int{}
	for _, id := range appraisal.RequiredQuestionIDs() {
		scores[id] = 7
	}

	appraiserToken := login("appraiser")
	resp, body := call("POST", "/api/v1/appraisals", appraiserToken, map[string]any{
		"employeeName":     "Journey Employee",
		"department":       "ICT",
		"hodName":          "Journey HOD",
		"scores":           scores,
		"comments":         "Full workflow test.",
		"signatureDataUrl": signature,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit: status %d body %s", resp.StatusCode, body)
	}

	var created struct {
		Data appraisal.Appraisal `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode created appraisal: %v", err)
	}
	if created.Data.Status != appraisal.StatusPendingHR {
		t.Fatalf("expected %s after submit, got %s", appraisal.StatusPendingHR, created.Data.Status)
	}

	stages := []struct {
		role string
		want string
	}{
		{"hr", appraisal.StatusPendingDocs},
		{"docs", appraisal.StatusPendingMD},
		{"md", appraisal.StatusPendingChairman},
		{"chairman", appraisal.StatusCompleted},
	}
	for _, stage := range stages {
		token := login(stage.role)
		resp, body := call("POST", "/api/v1/appraisals/"+created.Data.ID+"/approve", token, map[string]any{
			"comment":          "Approved by " + stage.role,
			"signatureDataUrl": signature,
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("approve as %s: status %d body %s", stage.role, resp.StatusCode, body)
		}

		var updated struct {
			Data appraisal.Appraisal `json:"data"`
		}
		if err := json.Unmarshal(body, &updated); err != nil {
			t.Fatalf("decode approval response: %v", err)
		}
		if updated.Data.Status != stage.want {
			t.Fatalf("after %s approval expected %s, got %s", stage.role, stage.want, updated.Data.Status)
		}
	}

	hrToken := login("hr")
	resp, body = call("POST", "/api/v1/appraisals/"+created.Data.ID+"/approve", hrToken, map[string]any{
		"signatureDataUrl": signature,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("approving a completed appraisal: expected 409, got %d body %s", resp.StatusCode, body)
	}

	resp, _ = call("GET", "/api/v1/appraisals/"+created.Data.ID+"/pdf", hrToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pdf download: status %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("pdf content type: %s", got)
	}
}
