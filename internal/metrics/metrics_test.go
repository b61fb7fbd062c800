package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled by default")
	}

	Disable()
	if IsEnabled() {
		t.Error("Expected metrics to be disabled after Disable()")
	}

	Enable()
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled after Enable()")
	}
}

func TestRecordLogin(t *testing.T) {
	Enable()
	LoginAttemptsTotal.Reset()

	RecordLogin(MethodFace, OutcomeSuccess)
	RecordLogin(MethodFace, OutcomeSuccess)
	RecordLogin(MethodPassword, OutcomeBadCredentials)

	if got := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(MethodFace, OutcomeSuccess)); got != 2 {
		t.Errorf("Expected 2 face successes, got %v", got)
	}
	if got := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues(MethodPassword, OutcomeBadCredentials)); got != 1 {
		t.Errorf("Expected 1 password failure, got %v", got)
	}
}

func TestRecordEnrollment_Disabled(t *testing.T) {
	EnrollmentsTotal.Reset()
	Disable()
	defer Enable()

	RecordEnrollment(OutcomeSuccess)

	if count := testutil.CollectAndCount(EnrollmentsTotal); count != 0 {
		t.Errorf("Expected no series while disabled, got %d", count)
	}
}

func TestRecordSkippedTemplates(t *testing.T) {
	Enable()
	before := testutil.ToFloat64(SkippedTemplatesTotal)

	RecordSkippedTemplates(0)
	RecordSkippedTemplates(3)

	if got := testutil.ToFloat64(SkippedTemplatesTotal) - before; got != 3 {
		t.Errorf("Expected counter to grow by 3, got %v", got)
	}
}

func TestHTTPMiddleware_UsesRoutePattern(t *testing.T) {
	Enable()
	HTTPRequestsTotal.Reset()

	r := chi.NewRouter()
	r.Use(HTTPMiddleware)
	r.Get("/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, name := range []string{"alice", "bob"} {
		req := httptest.NewRequest(http.MethodGet, "/users/"+name, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	if got := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("/users/{username}", "404")); got != 2 {
		t.Errorf("Expected 2 requests on route pattern, got %v", got)
	}
}
