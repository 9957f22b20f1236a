package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCORS tests the CORS middleware with various scenarios.
func TestCORS(t *testing.T) {
	restricted := DefaultCORSConfig()
	restricted.AllowedOrigins = []string{"https://app.example.com"}

	tests := []struct {
		name           string
		config         CORSConfig
		origin         string
		expectedOrigin string
	}{
		{name: "allow all", config: CORSConfig{AllowAll: true}, origin: "https://x.test", expectedOrigin: "*"},
		{name: "allowed origin echoed", config: restricted, origin: "https://app.example.com", expectedOrigin: "https://app.example.com"},
		{name: "unknown origin", config: restricted, origin: "https://evil.test", expectedOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := CORS(tt.config)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cameras", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.expectedOrigin {
				t.Errorf("expected Allow-Origin %q, got %q", tt.expectedOrigin, got)
			}
		})
	}
}

// TestCORS_Preflight tests that OPTIONS requests short-circuit.
func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := CORS(DefaultCORSConfig())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/packs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if called {
		t.Error("expected preflight not to reach the handler")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Max-Age") != "86400" {
		t.Errorf("unexpected max age %q", w.Header().Get("Access-Control-Max-Age"))
	}
}
