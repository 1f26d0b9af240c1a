package adapter

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromMetrics_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPromMetrics(reg)
	require.NoError(t, err)

	metrics.HandleAcquired("scope")
	metrics.HandleAcquired("variable")
	metrics.HandleReleased("scope")
	metrics.CallbackFired("cbValueChange")
	metrics.ErrorRecorded("not_found")

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.LiveHandles))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HandlesAcquired.WithLabelValues("scope")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.HandlesReleased.WithLabelValues("scope")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CallbacksFired.WithLabelValues("cbValueChange")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ErrorsRecorded.WithLabelValues("not_found")))
}

func TestPromMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewPromMetrics(reg)
	require.NoError(t, err)

	second, err := NewPromMetrics(reg)
	require.NoError(t, err)

	first.HandleAcquired("iterator")
	assert.Equal(t, float64(1), testutil.ToFloat64(second.LiveHandles))
}

func TestPromMetrics_Samples(t *testing.T) {
	metrics, err := NewPromMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	metrics.HandleAcquired("scope")
	metrics.CallbackFired("cbValueChange")
	metrics.CallbackFired("cbValueChange")

	samples, err := metrics.Samples()
	require.NoError(t, err)

	got := make(map[string]float64, len(samples))
	for _, s := range samples {
		got[s.Series] = s.Value
	}

	assert.Equal(t, float64(1), got["vpiscope_live_handles"])
	assert.Equal(t, float64(1), got[`vpiscope_handles_acquired_total{kind="scope"}`])
	assert.Equal(t, float64(2), got[`vpiscope_callbacks_fired_total{reason="cbValueChange"}`])
}
