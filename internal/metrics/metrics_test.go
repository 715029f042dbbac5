package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := MustNew(reg)

	m.IncNotified()
	m.IncNotified()
	m.IncSpawned()
	m.IncStoreError("save")
	m.AddSweepRemoved(3)
	m.AddSweepRemoved(0)
	m.ObserveDueCheck(20 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.notified))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.spawned))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("save")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepRemoved))

	n, err := testutil.GatherAndCount(reg, "nudge_due_check_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncNotified()
		m.IncSpawned()
		m.IncSeriesEnded()
		m.IncSkipped()
		m.IncStoreError("load")
		m.AddSweepRemoved(1)
		m.IncSnoozes()
		m.ObserveDueCheck(time.Second)
	})
}

func TestMustNew_DuplicatePanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)
	assert.Panics(t, func() { MustNew(reg) })
}
