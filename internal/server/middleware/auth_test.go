package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testAuthConfig() AuthConfig {
	cfg := DefaultAuthConfig()
	cfg.Enabled = true
	cfg.Secret = []byte("test-secret")
	return cfg
}

// TestDefaultAuthConfig tests default configuration.
func TestDefaultAuthConfig(t *testing.T) {
	config := DefaultAuthConfig()

	if config.Enabled {
		t.Error("expected Enabled=false by default")
	}
	if config.Issuer != "instantbox" {
		t.Errorf("expected Issuer=instantbox, got %s", config.Issuer)
	}
	if len(config.PublicPaths) == 0 {
		t.Error("expected default public paths to be set")
	}
}

// TestIssueAndVerifyToken tests the token round trip.
func TestIssueAndVerifyToken(t *testing.T) {
	cfg := testAuthConfig()

	token, err := IssueToken(cfg, "alice", "phone-1", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	claims, err := VerifyToken(cfg, token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Subject != "alice" || claims.DeviceID != "phone-1" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	other := cfg
	other.Secret = []byte("other-secret")
	if _, err := VerifyToken(other, token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}

	expired, err := IssueToken(cfg, "alice", "", -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}
	if _, err := VerifyToken(cfg, expired); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

// TestAuth tests the Auth middleware with various scenarios.
func TestAuth(t *testing.T) {
	logger := zerolog.Nop()
	cfg := testAuthConfig()

	valid, err := IssueToken(cfg, "alice", "", time.Hour)
	if err != nil {
		t.Fatalf("IssueToken failed: %v", err)
	}

	disabled := cfg
	disabled.Enabled = false

	tests := []struct {
		name           string
		config         AuthConfig
		target         string
		header         string
		expectedStatus int
	}{
		{name: "auth disabled", config: disabled, target: "/api/v1/cameras", expectedStatus: http.StatusOK},
		{name: "public path", config: cfg, target: "/api/v1/health", expectedStatus: http.StatusOK},
		{name: "valid bearer", config: cfg, target: "/api/v1/cameras", header: "Bearer " + valid, expectedStatus: http.StatusOK},
		{name: "query token", config: cfg, target: "/api/v1/events/ws?access_token=" + valid, expectedStatus: http.StatusOK},
		{name: "missing token", config: cfg, target: "/api/v1/cameras", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", config: cfg, target: "/api/v1/cameras", header: "Bearer nope", expectedStatus: http.StatusUnauthorized},
		{name: "not a bearer", config: cfg, target: "/api/v1/cameras", header: valid, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawClaims bool
			handler := Auth(tt.config, &logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, sawClaims = ClaimsFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.header == "Bearer "+valid && !sawClaims {
				t.Error("expected claims in request context")
			}
		})
	}
}
