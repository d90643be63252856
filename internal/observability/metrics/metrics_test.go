package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kirillkom/retail-insights/internal/core/domain"
)

func TestMiddlewareRecordsNormalizedPath(t *testing.T) {
	m := NewHTTPServerMetrics("retail-api")
	handler := m.Middleware("retail-api", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	for _, path := range []string{"/v1/dashboard", "/v1/unknown/123"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("retail-api", http.MethodGet, "/v1/dashboard", "202")); got != 1 {
		t.Fatalf("expected one dashboard request, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestTotal.WithLabelValues("retail-api", http.MethodGet, "other", "202")); got != 1 {
		t.Fatalf("expected unknown path folded into other, got %v", got)
	}
}

func TestObserveBackendCallClassifiesOutcome(t *testing.T) {
	m := NewBackendMetrics("retail-api", prometheus.NewRegistry())

	m.ObserveBackendCall("sales", "predict_sales", 200, nil, 10*time.Millisecond)
	m.ObserveBackendCall("sales", "predict_sales", 422, &domain.APIError{Message: "bad", Status: 422}, time.Millisecond)
	m.ObserveBackendCall("sales", "predict_sales", 0, &domain.APIError{Message: domain.TransportErrorMessage, Err: errors.New("dial")}, time.Millisecond)

	cases := []struct {
		status string
		result string
	}{
		{status: "200", result: "success"},
		{status: "422", result: "error"},
		{status: "none", result: "transport_error"},
	}
	for _, tc := range cases {
		if got := testutil.ToFloat64(m.callTotal.WithLabelValues("retail-api", "sales", "predict_sales", tc.status, tc.result)); got != 1 {
			t.Fatalf("expected one call with status=%s result=%s, got %v", tc.status, tc.result, got)
		}
	}
}

func TestObserveActionLabelsPhaseAndClass(t *testing.T) {
	m := NewBackendMetrics("retail-api", prometheus.NewRegistry())

	m.ObserveAction("classify_image", domain.PhaseSucceeded, domain.ErrorClassNone, time.Millisecond)
	m.ObserveAction("classify_image", domain.PhaseFailed, domain.ErrorClassValidation, time.Millisecond)

	if got := testutil.ToFloat64(m.actionTotal.WithLabelValues("retail-api", "classify_image", "succeeded", "none")); got != 1 {
		t.Fatalf("expected one succeeded action, got %v", got)
	}
	if got := testutil.ToFloat64(m.actionTotal.WithLabelValues("retail-api", "classify_image", "failed", "validation")); got != 1 {
		t.Fatalf("expected one validation failure, got %v", got)
	}
}

func TestHandlerExposesSharedRegistry(t *testing.T) {
	m := NewHTTPServerMetrics("retail-api")
	m.ObserveBackendCall("recommender", "health", 200, nil, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "retail_backend_calls_total") {
		t.Fatalf("expected backend metrics in exposition, got %s", body)
	}
}
