package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the outcomes of the donor intake decisions.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	EligibilityChecks *prometheus.CounterVec
	DeferralChecks    *prometheus.CounterVec
	ReviewFlags       *prometheus.CounterVec
	DonorTokens       *prometheus.CounterVec
	StoreDuration     *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		EligibilityChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_eligibility_checks_total",
			Help: "Eligibility evaluations by outcome (eligible, ineligible, invalid, error)",
		}, []string{"outcome"}),
		DeferralChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_deferral_checks_total",
			Help: "Deferral classifications by outcome (deferred, clear, no_record, error)",
		}, []string{"outcome"}),
		ReviewFlags: f.NewCounterVec(prometheus.CounterOpts{
			Name: "screening_review_flags_total",
			Help: "Needs-review transitions by result",
		}, []string{"result"}),
		DonorTokens: f.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_tokens_total",
			Help: "Donor token operations by kind (hash, random, resolve) and result",
		}, []string{"kind", "result"}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "donor_store_duration_seconds",
			Help:    "Latency of backing store reads and writes",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"op"}),
	}
}

func (m *Metrics) Eligibility(outcome string) {
	if m == nil {
		return
	}
	m.EligibilityChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Deferral(outcome string) {
	if m == nil {
		return
	}
	m.DeferralChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ReviewFlag(result string) {
	if m == nil {
		return
	}
	m.ReviewFlags.WithLabelValues(result).Inc()
}

func (m *Metrics) DonorToken(kind, result string) {
	if m == nil {
		return
	}
	m.DonorTokens.WithLabelValues(kind, result).Inc()
}

// ObserveStore records the duration of a store call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStore(op string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
