package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestLiveness_Handler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()

	Liveness()(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d want 200", rr.Code)
	}
	ct := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("content-type=%q want text/plain", ct)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "ok" {
		t.Fatalf("body=%q want ok", got)
	}
}

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadiness(t *testing.T) {
	cases := []struct {
		name   string
		deps   map[string]Pinger
		status int
		body   string
	}{
		{"no deps", nil, http.StatusOK, `"ready"`},
		{"disabled redis", map[string]Pinger{"redis": nil}, http.StatusOK, `"redis":"disabled"`},
		{"healthy", map[string]Pinger{"redis": pingFunc(func(context.Context) error { return nil })}, http.StatusOK, `"redis":"ok"`},
		{"failing", map[string]Pinger{"redis": pingFunc(func(context.Context) error { return errors.New("refused") })}, http.StatusServiceUnavailable, `"redis":"refused"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Readiness(tc.deps, time.Second)(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			if rr.Code != tc.status {
				t.Fatalf("status=%d want %d", rr.Code, tc.status)
			}
			if !strings.Contains(rr.Body.String(), tc.body) {
				t.Fatalf("body=%q want substring %s", rr.Body.String(), tc.body)
			}
		})
	}
}
