// Package metrics holds the Prometheus collectors for the contact form flow.
// Collectors are registered on the Registerer passed to New, never on the
// global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes.
const (
	OutcomeSucceeded        = "succeeded"
	OutcomeInvalid          = "invalid"
	OutcomeMissingRecipient = "missing_recipient"
	OutcomeSendFailed       = "send_failed"
)

// Verification results.
const (
	VerificationPassed   = "passed"
	VerificationFailed   = "failed"
	VerificationBypassed = "bypassed"
	VerificationError    = "error"
)

// Dispatch results.
const (
	DispatchSent   = "sent"
	DispatchFailed = "failed"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Submissions   *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	Dispatch      *prometheus.HistogramVec
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "website_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		}, []string{"outcome"}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "website_recaptcha_verifications_total",
			Help: "reCAPTCHA token verifications by result",
		}, []string{"result"}),
		Dispatch: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "website_email_dispatch_seconds",
			Help:    "Time spent rendering and handing an email to the transport",
			Buckets: prometheus.DefBuckets,
		}, []string{"result"}),
	}
}

// Submission counts a finished contact form submission.
func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

// Verification counts a reCAPTCHA verification.
func (m *Metrics) Verification(result string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// TrackDispatch runs f and records its duration under the sent or failed label.
func (m *Metrics) TrackDispatch(f func() error) error {
	start := time.Now()
	err := f()
	if m == nil {
		return err
	}
	result := DispatchSent
	if err != nil {
		result = DispatchFailed
	}
	m.Dispatch.WithLabelValues(result).Observe(time.Since(start).Seconds())
	return err
}

// Handler exposes the collectors gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
