// Package metrics exposes Prometheus instrumentation for enrollment and login.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all face-auth metrics
	Namespace = "faceauth"

	LabelMethod  = "method"
	LabelOutcome = "outcome"
	LabelRoute   = "route"
	LabelStatus  = "status_code"

	// Login methods
	MethodPassword = "password"
	MethodFace     = "face"

	// Outcomes
	OutcomeSuccess        = "success"
	OutcomeDuplicate      = "duplicate"
	OutcomeInvalidInput   = "invalid_input"
	OutcomeNoFace         = "no_face"
	OutcomeNoEnrolled     = "no_enrolled"
	OutcomeNotRecognized  = "not_recognized"
	OutcomeBadCredentials = "invalid_credentials"
	OutcomeInternalError  = "internal_error"
)

var (
	// EnrollmentsTotal counts enrollment attempts by outcome.
	EnrollmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "enrollments_total",
			Help:      "Total number of enrollment attempts by outcome",
		},
		[]string{LabelOutcome},
	)

	// LoginAttemptsTotal counts login attempts by method and outcome.
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts by method and outcome",
		},
		[]string{LabelMethod, LabelOutcome},
	)

	// MatchDistance observes the best distance found by each face login that
	// had at least one candidate under the threshold.
	MatchDistance = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "match_distance",
			Help:      "Distance between the probe and the accepted template",
			Buckets:   []float64{.05, .1, .15, .2, .25, .3, .35, .4, .45, .5, .55, .6},
		},
	)

	// MultiFaceEnrollmentsTotal counts enrollments whose image held more than one face.
	MultiFaceEnrollmentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "multi_face_enrollments_total",
			Help:      "Enrollments where the image contained more than one face",
		},
	)

	// SkippedTemplatesTotal counts stored templates ignored due to a dimension mismatch.
	SkippedTemplatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "skipped_templates_total",
			Help:      "Stored templates skipped because their length differs from the probe",
		},
	)

	// HTTPRequestsTotal tracks HTTP requests by route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		},
		[]string{LabelRoute, LabelStatus},
	)

	// HTTPRequestDuration tracks the duration of HTTP requests in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelRoute},
	)

	enabled atomic.Bool
)

func init() {
	enabled.Store(true)
}

// RecordEnrollment records the outcome of an enrollment attempt.
func RecordEnrollment(outcome string) {
	if !enabled.Load() {
		return
	}
	EnrollmentsTotal.WithLabelValues(outcome).Inc()
}

// RecordLogin records the outcome of a login attempt.
func RecordLogin(method, outcome string) {
	if !enabled.Load() {
		return
	}
	LoginAttemptsTotal.WithLabelValues(method, outcome).Inc()
}

// ObserveMatchDistance records the distance of an accepted face match.
func ObserveMatchDistance(distance float64) {
	if !enabled.Load() {
		return
	}
	MatchDistance.Observe(distance)
}

// RecordMultiFaceEnrollment counts an enrollment image with several faces.
func RecordMultiFaceEnrollment() {
	if !enabled.Load() {
		return
	}
	MultiFaceEnrollmentsTotal.Inc()
}

// RecordSkippedTemplates adds n to the skipped template counter.
func RecordSkippedTemplates(n int) {
	if !enabled.Load() || n <= 0 {
		return
	}
	SkippedTemplatesTotal.Add(float64(n))
}

// RecordHTTPRequest records an HTTP request with its duration and status.
func RecordHTTPRequest(route, statusCode string, duration float64) {
	if !enabled.Load() {
		return
	}
	HTTPRequestsTotal.WithLabelValues(route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(duration)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
