package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"callbridge/internal/config"
	"callbridge/internal/rest"
	"callbridge/internal/webhook"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		App:     config.AppConfig{Env: "local", Port: 8080},
		Account: config.AccountConfig{AccountSID: "AC1", AuthToken: "secret"},
	}
	client, err := rest.NewClient(cfg.Account.AccountSID, cfg.Account.AuthToken)
	if err != nil {
		t.Fatalf("client: %v", err)
	}

	r := gin.New()
	registerRoutes(r, cfg, client, webhook.NewRegistry(0, 0))
	return r
}

func TestHealthzIsPublic(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
}

func TestV1RequiresAccountCredentials(t *testing.T) {
	router := testRouter(t)

	body := `{"client_name":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/capability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401 without credentials", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/tokens/capability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("AC1", "wrong")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401 with bad credentials", w.Code)
	}
}

func TestCapabilityTokenWithCredentials(t *testing.T) {
	router := testRouter(t)

	body := `{"client_name":"alice"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/tokens/capability", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth("AC1", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("expected a signed token")
	}
}
