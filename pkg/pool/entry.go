package pool

import "sync/atomic"

// poolLimits is the pool's shared, atomically-mutable pair of runtime
// limits. Every Entry[T] the pool governs holds a reference to the same
// instance, so SetMaxMultiplex/SetMaxUsageCount take effect immediately
// for all entries without touching any per-entry state.
type poolLimits struct {
	maxMultiplex  atomic.Int32
	maxUsageCount atomic.Int32
}

func newPoolLimits(maxMultiplex, maxUsageCount int32) *poolLimits {
	l := &poolLimits{}
	l.maxMultiplex.Store(maxMultiplex)
	l.maxUsageCount.Store(maxUsageCount)
	return l
}

// Entry is one pooled slot. It owns its pooled value of type T and an
// atomic bi-counter encoding its place in the reserved -> enabled ->
// acquired/idle -> closed state machine. The zero value is not usable;
// entries are only constructed by Pool.Reserve.
type Entry[T any] struct {
	state  biCounter
	pooled atomic.Pointer[T]
	limits *poolLimits
	pool   *Pool[T]
}

func newPendingEntry[T any](p *Pool[T]) *Entry[T] {
	e := &Entry[T]{
		limits: p.limits,
		pool:   p,
	}
	e.state.init(pendingHi, 0)
	return e
}

// Value returns the pooled value, or nil if the entry has never been
// enabled (or enable failed and cleared it).
func (e *Entry[T]) Value() *T {
	return e.pooled.Load()
}

// Release is a convenience delegate for Pool.Release(e).
func (e *Entry[T]) Release() bool {
	return e.pool.Release(e)
}

// IsIdle reports whether the entry currently has zero outstanding
// acquisitions. Pending and closed entries with lo == 0 are also idle.
func (e *Entry[T]) IsIdle() bool {
	_, lo := e.state.Get()
	return lo <= 0
}

// IsClosed reports whether the entry has reached the terminal closed
// state. Closed entries never become acquirable again.
func (e *Entry[T]) IsClosed() bool {
	hi, _ := e.state.Get()
	return hi < 0 && hi != pendingHi
}

// UsageCount returns the number of acquisitions performed since
// enablement, or 0 for a pending or closed entry.
func (e *Entry[T]) UsageCount() int32 {
	hi, _ := e.state.Get()
	if hi < 0 {
		return 0
	}
	return hi
}

// tryAcquire attempts to claim one multiplex slot. It fails if the entry
// is pending or closed, if it is already at its multiplex cap, or if it
// has exhausted its usage-count budget. maxMultiplex and maxUsageCount
// are re-read on every retry, so a concurrent reconfiguration is picked
// up as soon as the next CAS attempt runs.
func (e *Entry[T]) tryAcquire() bool {
	for {
		hi, lo := e.state.Get()
		if hi < 0 {
			return false
		}
		if lo >= e.limits.maxMultiplex.Load() {
			return false
		}
		if maxUsageCount := e.limits.maxUsageCount.Load(); maxUsageCount > 0 && hi >= maxUsageCount {
			return false
		}
		if e.state.CompareAndSwap(hi, lo, hi+1, lo+1) {
			return true
		}
	}
}

// tryRelease returns one multiplex slot. It panics if the caller
// over-releases (more releases than acquisitions). It returns false if
// the entry is already closed, or if this release exhausted the entry's
// usage-count budget and left it idle; in both cases the caller must
// invoke remove.
func (e *Entry[T]) tryRelease() bool {
	for {
		hi, lo := e.state.Get()
		if hi < 0 {
			return false
		}
		newLo := lo - 1
		if newLo < 0 {
			panic(errOverRelease)
		}
		if e.state.CompareAndSwap(hi, lo, hi, newLo) {
			maxUsageCount := e.limits.maxUsageCount.Load()
			overUsed := maxUsageCount > 0 && hi >= maxUsageCount
			return !(overUsed && newLo == 0)
		}
	}
}

// tryRemove forces the entry to the terminal closed state. It returns
// true, a delete token, exactly to the one caller observing lo drop to
// zero alongside the close, meaning the entry is both closed and idle
// and may safely be unlinked and disposed. Any other concurrent holder
// observes false and finishes via tryRelease instead.
func (e *Entry[T]) tryRemove() bool {
	for {
		hi, lo := e.state.Get()
		if hi < 0 && hi != pendingHi && lo == 0 {
			// Already closed and idle: the token was handed out before.
			return false
		}
		newLo := lo - 1
		if newLo < 0 {
			newLo = 0
		}
		if e.state.CompareAndSwap(hi, lo, -1, newLo) {
			if hi == pendingHi {
				e.pool.pending.Add(-1)
			}
			return newLo == 0
		}
	}
}
