package poolmetrics

import (
	"bytes"
	"testing"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/require"

	"github.com/thomasdraebing/entrypool/pkg/pool"
)

func TestRecorder_ImplementsPoolRecorder(t *testing.T) {
	var _ pool.Recorder = New("test")
}

func TestRecorder_EmitsLabeledCounters(t *testing.T) {
	r := New("metrics-test-pool")
	r.OnReserve()
	r.OnEnable()
	r.OnAcquire()
	r.OnRelease(false)
	r.OnRelease(true)
	r.OnRemove()
	r.OnClose()

	var buf bytes.Buffer
	metrics.WritePrometheus(&buf, false)
	out := buf.String()

	require.Contains(t, out, `entrypool_reserved_total{pool="metrics-test-pool"}`)
	require.Contains(t, out, `entrypool_retired_total{pool="metrics-test-pool"}`)
}
