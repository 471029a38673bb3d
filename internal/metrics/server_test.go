package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDefaultSecurityConfig(t *testing.T) {
	t.Parallel()
	config := DefaultSecurityConfig()

	if !config.EnableCORS {
		t.Error("EnableCORS should be true by default")
	}
	if len(config.AllowedOrigins) != 1 || config.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [\"*\"]", config.AllowedOrigins)
	}
	if len(config.AllowedMethods) != 2 || config.AllowedMethods[0] != "GET" || config.AllowedMethods[1] != "OPTIONS" {
		t.Errorf("AllowedMethods = %v, want [GET OPTIONS]", config.AllowedMethods)
	}
}

func TestSecurityMiddleware_SecurityHeaders(t *testing.T) {
	t.Parallel()
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		if got := rec.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
	if !nextCalled {
		t.Error("next handler was not called")
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		config         SecurityConfig
		origin         string
		expectedOrigin string
	}{
		{"disabled", SecurityConfig{}, "http://example.com", ""},
		{"wildcard", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "http://example.com", "*"},
		{"specific", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com"}, AllowedMethods: []string{"GET"}}, "http://a.com", "http://a.com"},
		{"second of many", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com", "http://b.com"}, AllowedMethods: []string{"GET"}}, "http://b.com", "http://b.com"},
		{"disallowed", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com"}, AllowedMethods: []string{"GET"}}, "http://evil.com", ""},
		{"no origin with wildcard", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}, "", "*"},
		{"no origin with specific", SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://a.com"}, AllowedMethods: []string{"GET"}}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := SecurityMiddleware(tt.config, func(http.ResponseWriter, *http.Request) {})
			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			got := rec.Header().Get("Access-Control-Allow-Origin")
			if got != tt.expectedOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.expectedOrigin)
			}
			if tt.expectedOrigin != "" {
				for _, h := range []string{"Access-Control-Allow-Methods", "Access-Control-Allow-Headers", "Access-Control-Max-Age"} {
					if rec.Header().Get(h) == "" {
						t.Errorf("%s should be set", h)
					}
				}
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	t.Parallel()
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(http.ResponseWriter, *http.Request) {
		nextCalled = true
	})
	req := httptest.NewRequest(http.MethodOptions, "/metrics", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler should not be called for OPTIONS")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("CORS headers should be set for OPTIONS")
	}
}

func TestServer_handleMetrics(t *testing.T) {
	t.Parallel()
	s := NewServer(":0", NewMetrics(), nil)
	h := s.Handler()

	t.Run("GET returns metrics", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "bigcalc_http_requests_total 1") {
			t.Error("scrape should be counted before the registry is written")
		}
	})

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method+" is rejected", func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(method, "/metrics", http.NoBody))
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("security headers should be set on rejected requests")
			}
		})
	}

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
		if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
			t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
		}
	})
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	s := NewServer("127.0.0.1:0", NewMetrics(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ln, err := s.Listen(ctx)
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	var resp *http.Response
	for range 50 {
		resp, err = client.Get("http://" + ln.Addr().String() + "/metrics")
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "bigcalc_evaluations_total") && !strings.Contains(string(body), "bigcalc_active_evaluations") {
		t.Error("response should contain bigcalc metrics")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServer_ListenRejectsBusyAddress(t *testing.T) {
	t.Parallel()
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen: %v", err)
	}
	defer taken.Close()

	s := NewServer(taken.Addr().String(), NewMetrics(), nil)
	if ln, err := s.Listen(context.Background()); err == nil {
		ln.Close()
		t.Fatal("expected an error for an address already in use")
	}
}
