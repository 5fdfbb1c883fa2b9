package metrics_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrimnight/scrimnight/internal/match"
	"github.com/scrimnight/scrimnight/internal/metrics"
)

func TestRecorder_MatchLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	rec.MatchCreated(&match.Match{})
	rec.MatchCreated(&match.Match{})
	rec.MatchResolved(&match.Match{Outcome: match.OutcomeBlue})
	rec.ResolveRejected(uuid.New(), &match.AlreadyResolvedError{Outcome: match.OutcomeBlue})

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				values[mf.GetName()] += c.GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["scrimnight_matches_created_total"])
	assert.Equal(t, 1.0, values["scrimnight_matches_resolved_total"])
	assert.Equal(t, 1.0, values["scrimnight_match_resolve_conflicts_total"])
}

func TestRecorder_Balance(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)

	rec.BalanceSucceeded(9)
	rec.BalanceSucceeded(0)
	rec.BalanceRejected()

	count, err := testutil.GatherAndCount(reg, "scrimnight_balance_requests_total", "scrimnight_balance_differential")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestRecorder_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.New(reg)

	assert.Panics(t, func() { metrics.New(reg) })
}
