package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.ObserveWebhook("merge_request", "accepted")
	r.ObserveWebhook("merge_request", "accepted")
	r.ObserveWebhook("", "ignored")
	r.ObserveJob("completed", "mock", 2*time.Second)
	r.ObserveChannel("slack", false, 100*time.Millisecond)
	r.SetQueueDepth(3)
	r.ObserveSweep(2, 2048)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.webhooksTotal.WithLabelValues("merge_request", "accepted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.webhooksTotal.WithLabelValues("unknown", "ignored")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.jobsTotal.WithLabelValues("completed", "mock")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.channelsTotal.WithLabelValues("slack", "false")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.queueDepth))
	assert.Equal(t, 2048.0, testutil.ToFloat64(r.sweptBytes))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNop(t *testing.T) {
	r := NewNop()
	r.ObserveWebhook("x", "y")
	r.ObserveJob("failed", "mock", time.Second)
	r.SetQueueDepth(1)
}
