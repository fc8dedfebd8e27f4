package pool

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Disposer is implemented by pooled values that need best-effort cleanup
// on terminal removal, whether via an explicit Remove or a pool Close. A
// Dispose error is logged and never propagated: disposal is a side
// effect, not part of the pool's own invariants.
type Disposer interface {
	Dispose() error
}

// Option configures a Pool[T] at construction time.
type Option[T any] func(*Pool[T])

// WithMaxMultiplex sets the pool's initial cap on concurrent acquisitions
// per entry. The default is 1.
func WithMaxMultiplex[T any](n int32) Option[T] {
	return func(p *Pool[T]) { p.limits.maxMultiplex.Store(n) }
}

// WithMaxUsageCount sets the pool's initial cap on lifetime acquisitions
// per entry. The default is -1 (unbounded).
func WithMaxUsageCount[T any](k int32) Option[T] {
	return func(p *Pool[T]) { p.limits.maxUsageCount.Store(k) }
}

// WithRecorder attaches a lifecycle observer. nil is accepted and is the
// default (no-op).
func WithRecorder[T any](r Recorder) Option[T] {
	return func(p *Pool[T]) { p.recorder = r }
}

// WithLogger overrides the logger used to report disposal failures. The
// default is the global zerolog logger.
func WithLogger[T any](l zerolog.Logger) Option[T] {
	return func(p *Pool[T]) { p.logger = l }
}

// Pool is a generic, concurrent object pool. Acquisition never blocks: a
// caller that finds no acquirable entry receives an absent result and is
// expected to implement retry/backoff externally.
type Pool[T any] struct {
	maxEntries int
	cacheSize  int

	limits *poolLimits
	list   *entryList[T]

	pending atomic.Int64
	closed  atomic.Bool

	cachePool *sync.Pool

	mu sync.Mutex // serializes Reserve's and Close's capacity/closed checks

	recorder Recorder
	logger   zerolog.Logger
}

// NewPool constructs a Pool[T] with the given hard capacity and
// per-goroutine cache size (0 disables the cache). maxMultiplex defaults
// to 1 and maxUsageCount defaults to -1 (unbounded); override either via
// WithMaxMultiplex/WithMaxUsageCount.
func NewPool[T any](maxEntries int, cacheSize int, opts ...Option[T]) (*Pool[T], error) {
	if maxEntries <= 0 {
		return nil, fmt.Errorf("pool: %w: maxEntries must be positive", ErrInvalidCapacity)
	}
	if cacheSize < 0 {
		return nil, fmt.Errorf("pool: %w: cacheSize must be non-negative", ErrInvalidCapacity)
	}

	p := &Pool[T]{
		maxEntries: maxEntries,
		cacheSize:  cacheSize,
		limits:     newPoolLimits(1, -1),
		list:       newEntryList[T](),
		logger:     log.Logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	if cacheSize > 0 {
		p.cachePool = &sync.Pool{
			New: func() any { return newGoroutineCache[T](cacheSize) },
		}
	}

	return p, nil
}

// SetMaxMultiplex updates the pool's cap on concurrent acquisitions per
// entry. It rejects n < 1.
func (p *Pool[T]) SetMaxMultiplex(n int32) error {
	if n < 1 {
		return fmt.Errorf("pool: %w", ErrInvalidMultiplex)
	}
	p.limits.maxMultiplex.Store(n)
	return nil
}

// SetMaxUsageCount updates the pool's cap on lifetime acquisitions per
// entry. It rejects k == 0; negative means unbounded.
func (p *Pool[T]) SetMaxUsageCount(k int32) error {
	if k == 0 {
		return fmt.Errorf("pool: %w", ErrInvalidUsageCount)
	}
	p.limits.maxUsageCount.Store(k)
	return nil
}

// Reserve carves out a new pending slot. It fails if the pool is closed,
// at capacity, or if maxReservations is non-negative and already met by
// the current pending count.
func (p *Pool[T]) Reserve(maxReservations int) (*Reservation[T], bool) {
	if p.closed.Load() {
		return nil, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed.Load() {
		return nil, false
	}
	if p.list.size() >= p.maxEntries {
		return nil, false
	}
	if maxReservations >= 0 && p.pending.Load() >= int64(maxReservations) {
		return nil, false
	}

	p.pending.Add(1)
	e := newPendingEntry(p)
	p.list.append(e)
	p.recordReserve()

	return &Reservation[T]{entry: e}, true
}

// Acquire performs a non-blocking acquisition. If the pool has a
// per-goroutine cache, it is tried first; failed pops are silently
// dropped, since the cache may hold poisoned references. Failing the
// cache (or with caching disabled), Acquire falls through to the shared
// list in insertion order.
func (p *Pool[T]) Acquire() (*Entry[T], bool) {
	if p.closed.Load() {
		return nil, false
	}

	if p.cachePool != nil {
		c := p.cachePool.Get().(*goroutineCache[T])
		for {
			e, ok := c.pop()
			if !ok {
				break
			}
			if e.tryAcquire() {
				p.cachePool.Put(c)
				p.recordAcquire()
				return e, true
			}
		}
		p.cachePool.Put(c)
	}

	for _, e := range p.list.load() {
		if e.tryAcquire() {
			p.recordAcquire()
			return e, true
		}
	}

	return nil, false
}

// AcquireAt bypasses the per-goroutine cache and attempts to acquire the
// entry at the given position in the shared list.
func (p *Pool[T]) AcquireAt(index int) (*Entry[T], bool) {
	if p.closed.Load() {
		return nil, false
	}

	entries := p.list.load()
	if index < 0 || index >= len(entries) {
		return nil, false
	}

	e := entries[index]
	if e.tryAcquire() {
		p.recordAcquire()
		return e, true
	}
	return nil, false
}

// Release returns an acquisition. A false result means the pool is
// closed, the entry is closed, or the entry has exhausted its usage-count
// budget; in the last two cases the caller must now call Remove.
// On a successful release, if the pool has a per-goroutine cache, the
// entry is pushed onto it as a latency optimization for the next
// Acquire on this goroutine.
func (p *Pool[T]) Release(e *Entry[T]) bool {
	if p.closed.Load() {
		return false
	}

	ok := e.tryRelease()
	p.recordRelease(!ok)

	if ok && p.cachePool != nil {
		c := p.cachePool.Get().(*goroutineCache[T])
		c.push(e)
		p.cachePool.Put(c)
	}

	return ok
}

// Remove permanently evicts an entry. It returns false if the pool is
// closed, or if the entry is still multiplexed by other holders; in the
// latter case the last holder to release/remove performs the unlink.
func (p *Pool[T]) Remove(e *Entry[T]) bool {
	if p.closed.Load() {
		return false
	}

	if !e.tryRemove() {
		return false
	}

	p.list.remove(e)
	p.disposeEntry(e)
	p.recordRemove()

	return true
}

// Close drains the pool. It marks the pool closed and snapshots the
// shared list under the reservation lock, then outside the lock forces
// every entry to the closed state. tryRemove counts the close as one
// release, so an entry that was idle or held by a single caller is
// disposed immediately. An entry held by two or more callers is closed
// but not disposed, and since Release and Remove fail on a closed pool,
// no later call disposes it. After Close returns, every subsequent pool
// operation uniformly fails.
func (p *Pool[T]) Close() {
	p.mu.Lock()
	p.closed.Store(true)
	snapshot := p.list.clear()
	p.mu.Unlock()

	for _, e := range snapshot {
		if e.tryRemove() {
			p.disposeEntry(e)
		}
	}

	p.recordClose()
}

func (p *Pool[T]) disposeEntry(e *Entry[T]) {
	v := e.pooled.Load()
	if v == nil {
		return
	}
	disposer, ok := any(*v).(Disposer)
	if !ok {
		return
	}
	if err := disposer.Dispose(); err != nil {
		p.logger.Err(err).Msg("[pool] dispose failed")
	}
}

// PendingCount returns the number of entries reserved but not yet
// resolved (enabled or removed).
func (p *Pool[T]) PendingCount() int64 {
	return p.pending.Load()
}

// IdleCount returns the number of open entries with no outstanding
// acquisitions.
func (p *Pool[T]) IdleCount() int {
	n := 0
	for _, e := range p.list.load() {
		hi, lo := e.state.Get()
		if hi >= 0 && lo <= 0 {
			n++
		}
	}
	return n
}

// InUseCount returns the number of entries with at least one outstanding
// acquisition.
func (p *Pool[T]) InUseCount() int {
	n := 0
	for _, e := range p.list.load() {
		if _, lo := e.state.Get(); lo > 0 {
			n++
		}
	}
	return n
}

// Size returns the current size of the shared entry list.
func (p *Pool[T]) Size() int {
	return p.list.size()
}

// IsClosed reports whether Close has been called.
func (p *Pool[T]) IsClosed() bool {
	return p.closed.Load()
}

// Values returns a read-only snapshot of every enabled entry's pooled
// value, in insertion order.
func (p *Pool[T]) Values() []T {
	entries := p.list.load()
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		if v := e.pooled.Load(); v != nil {
			out = append(out, *v)
		}
	}
	return out
}
