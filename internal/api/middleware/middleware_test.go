package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/todohub/todohub/internal/api/middleware"
	"github.com/todohub/todohub/internal/api/response"
	"github.com/todohub/todohub/internal/domain"
)

func TestRecovery_PanicReturns500(t *testing.T) {
	// Handler that panics
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("something went wrong!")
	})

	// Wrap with recovery middleware
	handler := middleware.Recovery(panicHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rr.Code)
	}

	var resp response.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("expected code 'INTERNAL_ERROR', got %q", resp.Error.Code)
	}
}

func TestAuth_Extracted(t *testing.T) {
	var extracted domain.AuthContext

	// Handler that captures the auth context
	captureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extracted = middleware.GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with auth middleware
	handler := middleware.Auth(captureHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(middleware.UserIDHeader, "alice")
	req.Header.Set(middleware.UserRoleHeader, "ADMIN")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if extracted.UserID != "alice" || extracted.Role != "ADMIN" {
		t.Errorf("unexpected auth context: %+v", extracted)
	}
	if !extracted.IsAdmin() {
		t.Errorf("expected admin context")
	}
}

func TestAuth_TrimsHeaders(t *testing.T) {
	var extracted domain.AuthContext

	captureHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		extracted = middleware.GetAuthContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Auth(captureHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(middleware.UserIDHeader, "  bob  ")
	req.Header.Set(middleware.UserRoleHeader, " USER ")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if extracted.UserID != "bob" || extracted.Role != "USER" {
		t.Errorf("expected trimmed values, got %+v", extracted)
	}
}

func TestAuth_MissingHeaderReturns401(t *testing.T) {
	called := false
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	handler := middleware.Auth(nextHandler)

	tests := []struct {
		name   string
		userID string
		role   string
	}{
		{"no user id", "", "USER"},
		{"no role", "alice", ""},
		{"neither", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.userID != "" {
				req.Header.Set(middleware.UserIDHeader, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(middleware.UserRoleHeader, tt.role)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rr.Code)
			}
			if called {
				t.Error("handler should not be called without auth")
			}

			var resp response.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error.Code != "UNAUTHORIZED" {
				t.Errorf("expected code 'UNAUTHORIZED', got %q", resp.Error.Code)
			}
		})
	}
}

func TestGetAuthContext_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	auth := middleware.GetAuthContext(req.Context())
	if auth.UserID != "" || auth.Role != "" {
		t.Errorf("expected zero value, got %+v", auth)
	}
}

func TestLogging_CapturesStatus(t *testing.T) {
	// Handler that returns 201
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	// Wrap with logging middleware
	wrapped := middleware.Logging(handler)

	req := httptest.NewRequest("GET", "/test", nil)
	rr := httptest.NewRecorder()

	wrapped.ServeHTTP(rr, req)

	// Just verify it doesn't panic and returns correct status
	if rr.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", rr.Code)
	}
}
