package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchbox/webapi/internal/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:3000"}).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
}

func TestCORSIgnoresUnknownOrigin(t *testing.T) {
	handler := NewCORS([]string{"http://localhost:3000"}).Handler(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	req.Header.Set("Origin", "http://evil.example")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers, got %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := NewCORS([]string{"*"}).Handler(next)

	req := httptest.NewRequest(http.MethodOptions, "/v1/examples", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", resp.Code)
	}
	if called {
		t.Fatal("preflight should not reach the next handler")
	}
}

func TestLoggingSetsTraceID(t *testing.T) {
	logger := logging.NewDefault("test")
	handler := Logging(logger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Header().Get("X-Trace-ID") == "" {
		t.Fatal("expected generated trace id on response")
	}
}

func TestLoggingEchoesProvidedTraceID(t *testing.T) {
	logger := logging.NewDefault("test")
	handler := Logging(logger)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("X-Trace-ID", "trace-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("X-Trace-ID"); got != "trace-123" {
		t.Fatalf("expected trace id echoed, got %q", got)
	}
}

func TestRateLimiterRejectsAfterBurst(t *testing.T) {
	logger := logging.NewDefault("test")
	handler := NewRateLimiter(1, 2, logger).Handler(okHandler())

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		statuses = append(statuses, resp.Code)
	}

	if statuses[0] != http.StatusOK || statuses[1] != http.StatusOK {
		t.Fatalf("burst requests should pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after burst, got %v", statuses)
	}
}

func TestRateLimiterKeysByClient(t *testing.T) {
	logger := logging.NewDefault("test")
	handler := NewRateLimiter(1, 1, logger).Handler(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	first.RemoteAddr = "10.0.0.1:51234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, first)
	if resp.Code != http.StatusOK {
		t.Fatalf("first client should pass, got %d", resp.Code)
	}

	second := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	second.RemoteAddr = "10.0.0.2:51234"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, second)
	if resp.Code != http.StatusOK {
		t.Fatalf("distinct client should have its own bucket, got %d", resp.Code)
	}
}
