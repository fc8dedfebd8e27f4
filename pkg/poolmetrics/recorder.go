package poolmetrics

import (
	"github.com/VictoriaMetrics/metrics"

	"github.com/thomasdraebing/entrypool/pkg/poolmetrics/keyword"
)

// Recorder is a VictoriaMetrics-backed pool.Recorder. It satisfies that
// interface structurally (Go interfaces are implicit), so pkg/pool never
// needs to import this package. Every pool a process constructs should
// get its own Recorder, named, so its counters are distinguishable in
// scrape output.
type Recorder struct {
	name string
	bufs *sizedBufferPool
}

// New returns a Recorder that labels every metric it emits with
// pool="name".
func New(name string) *Recorder {
	return &Recorder{name: name, bufs: newSizedBufferPool()}
}

func (r *Recorder) counterName(metric string) string {
	buf := r.bufs.get(len(metric) + len(r.name) + 16)
	defer r.bufs.put(buf)

	*buf = append(*buf, metric...)
	*buf = append(*buf, `{pool="`...)
	*buf = append(*buf, r.name...)
	*buf = append(*buf, `"}`...)
	return string(*buf)
}

func (r *Recorder) OnReserve() {
	metrics.GetOrCreateCounter(r.counterName(keyword.Reserved)).Inc()
}

func (r *Recorder) OnEnable() {
	metrics.GetOrCreateCounter(r.counterName(keyword.Enabled)).Inc()
}

func (r *Recorder) OnAcquire() {
	metrics.GetOrCreateCounter(r.counterName(keyword.Acquired)).Inc()
}

func (r *Recorder) OnRelease(retired bool) {
	metrics.GetOrCreateCounter(r.counterName(keyword.Released)).Inc()
	if retired {
		metrics.GetOrCreateCounter(r.counterName(keyword.Retired)).Inc()
	}
}

func (r *Recorder) OnRemove() {
	metrics.GetOrCreateCounter(r.counterName(keyword.Removed)).Inc()
}

func (r *Recorder) OnClose() {
	metrics.GetOrCreateCounter(r.counterName(keyword.Closed)).Inc()
}

// Snapshot publishes a pool's current size/pending gauges. Callers wire
// this into a periodic ticker (see cmd/entrypoolsim) since the pool itself
// has no background goroutine to do so.
func (r *Recorder) Snapshot(size int, pending int64) {
	metrics.GetOrCreateGauge(r.counterName(keyword.PoolSize), nil).Set(float64(size))
	metrics.GetOrCreateGauge(r.counterName(keyword.PendingCt), nil).Set(float64(pending))
}
