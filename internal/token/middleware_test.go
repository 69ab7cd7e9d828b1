package token

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequireAccount("AC1", "secret"))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func TestRequireAccountRejectsMissingCredentials(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Fatalf("expected WWW-Authenticate challenge")
	}
}

func TestRequireAccountRejectsWrongCredentials(t *testing.T) {
	router := authTestRouter()

	cases := []struct{ user, pass string }{
		{"AC1", "wrong"},
		{"AC2", "secret"},
		{"", ""},
	}
	for i, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.SetBasicAuth(tc.user, tc.pass)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("case %d: status %d, want 401", i, w.Code)
		}
	}
}

func TestRequireAccountAcceptsValidCredentials(t *testing.T) {
	router := authTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.SetBasicAuth("AC1", "secret")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", w.Code)
	}
}
