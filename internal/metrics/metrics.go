// Package metrics exposes Prometheus instrumentation for balancing, match
// lifecycle and rating refreshes.
package metrics

import (
	"errors"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/scrimnight/scrimnight/internal/match"
)

// Recorder holds the service's collectors. It implements match.Observer.
type Recorder struct {
	balanceRequests     *prometheus.CounterVec
	balanceDifferential prometheus.Histogram
	matchesCreated      prometheus.Counter
	matchesResolved     *prometheus.CounterVec
	resolveConflicts    prometheus.Counter
	ratingRefreshes     *prometheus.CounterVec
}

// New registers every collector with reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	r := &Recorder{}

	r.balanceRequests = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrimnight_balance_requests_total",
			Help: "team balance requests by result",
		},
		[]string{"result"},
	)
	r.balanceDifferential = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrimnight_balance_differential",
			Help:    "score differential of balanced teams",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
		},
	)
	r.matchesCreated = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "scrimnight_matches_created_total",
			Help: "matches recorded",
		},
	)
	r.matchesResolved = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrimnight_matches_resolved_total",
			Help: "matches resolved by winning side",
		},
		[]string{"outcome"},
	)
	r.resolveConflicts = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "scrimnight_match_resolve_conflicts_total",
			Help: "resolutions rejected because the match was already resolved",
		},
	)
	r.ratingRefreshes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrimnight_rating_refreshes_total",
			Help: "member tier lookups by result",
		},
		[]string{"result"},
	)

	return r
}

// BalanceSucceeded records a balanced split and its differential.
func (r *Recorder) BalanceSucceeded(differential int) {
	r.balanceRequests.WithLabelValues("ok").Inc()
	r.balanceDifferential.Observe(float64(differential))
}

// BalanceRejected records a request the engine refused.
func (r *Recorder) BalanceRejected() {
	r.balanceRequests.WithLabelValues("rejected").Inc()
}

// MatchCreated implements match.Observer.
func (r *Recorder) MatchCreated(*match.Match) {
	r.matchesCreated.Inc()
}

// MatchResolved implements match.Observer.
func (r *Recorder) MatchResolved(m *match.Match) {
	r.matchesResolved.WithLabelValues(string(m.Outcome)).Inc()
}

// ResolveRejected implements match.Observer.
func (r *Recorder) ResolveRejected(_ uuid.UUID, err error) {
	if errors.Is(err, match.ErrAlreadyResolved) {
		r.resolveConflicts.Inc()
	}
}

// TierRefreshed records the result of one member lookup: "changed",
// "unchanged" or "error".
func (r *Recorder) TierRefreshed(result string) {
	r.ratingRefreshes.WithLabelValues(result).Inc()
}
