package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	m := New()

	m.IncInteraction("someblogger", true)
	m.IncInteraction("someblogger", true)
	m.IncInteraction("someblogger", false)
	m.IncLike()
	m.IncFollow()
	m.IncHarvested()
	m.IncJobRetry()
	m.IncError("action_failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.InteractionsTotal.WithLabelValues("someblogger", "succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InteractionsTotal.WithLabelValues("someblogger", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LikesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FollowsTotal))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ScrapedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsHarvested))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobRetriesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("action_failed")))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.IncInteraction("someblogger", true)
		m.IncLike()
		m.IncFollow()
		m.IncScraped()
		m.IncHarvested()
		m.IncJobRetry()
		m.IncError("action_failed")
	})
}

func TestIndependentRegistries(t *testing.T) {
	// Two engine instances must not collide on registration.
	first := New()
	second := New()
	require.NotNil(t, first.Registry)
	require.NotNil(t, second.Registry)

	first.IncLike()
	assert.Equal(t, 0.0, testutil.ToFloat64(second.LikesTotal))
}
