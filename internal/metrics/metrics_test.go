package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notes/missing", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, reg)
	if !strings.Contains(body, `voxdesk_http_requests_total{method="GET",status_code="404"} 1`) {
		t.Errorf("scrape output missing request counter:\n%s", body)
	}
}

func TestMiddleware_CountsAuthFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	body := scrape(t, reg)
	if !strings.Contains(body, "voxdesk_auth_failures_total 2") {
		t.Errorf("scrape output missing auth failure counter:\n%s", body)
	}
}

func TestRecordSignIn(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSignIn("password")
	c.RecordSignIn("google")
	c.RecordSignIn("google")

	body := scrape(t, reg)
	if !strings.Contains(body, `voxdesk_sign_ins_total{method="google"} 2`) {
		t.Errorf("scrape output missing sign-in counter:\n%s", body)
	}
}

func scrape(t *testing.T, reg prometheus.Gatherer) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics scrape: status %d", rr.Code)
	}
	return rr.Body.String()
}
