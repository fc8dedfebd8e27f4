package pool

import "fmt"

// Reservation is a transient handle to exactly one pending Entry[T]
// already inserted into the pool's shared list but not yet carrying a
// value. Callers construct the pooled value externally, then publish it
// via Enable or AcquireValue.
type Reservation[T any] struct {
	entry *Entry[T]
}

// Entry returns the pending entry the reservation wraps.
func (r *Reservation[T]) Entry() *Entry[T] {
	return r.entry
}

// Enable publishes value into the entry and opens it for acquisition,
// idle. It returns ErrNotPending if a concurrent caller already enabled
// or removed the same reservation; enabling a reservation twice is a
// caller bug, but one confined to the caller, so it is reported rather
// than fatal to the process.
func (r *Reservation[T]) Enable(value T) error {
	e := r.entry
	e.pooled.Store(&value)
	if !e.state.CompareAndSwap(pendingHi, 0, 0, 0) {
		e.pooled.Store(nil)
		return fmt.Errorf("reservation enable: %w", ErrNotPending)
	}
	e.pool.pending.Add(-1)
	e.pool.recordEnable()
	return nil
}

// AcquireValue publishes value and atomically claims the first
// acquisition in the same CAS that opens the entry, leaving no window in
// which a concurrent Acquire could observe the entry first.
func (r *Reservation[T]) AcquireValue(value T) (*Entry[T], error) {
	e := r.entry
	e.pooled.Store(&value)
	if !e.state.CompareAndSwap(pendingHi, 0, 1, 1) {
		e.pooled.Store(nil)
		return nil, fmt.Errorf("reservation acquire: %w", ErrNotPending)
	}
	e.pool.pending.Add(-1)
	e.pool.recordEnable()
	e.pool.recordAcquire()
	return e, nil
}

// Remove aborts the reservation, removing the underlying never-enabled
// entry from the pool. Because lo == 0 for a pending entry, removal
// always succeeds immediately.
func (r *Reservation[T]) Remove() bool {
	return r.entry.pool.Remove(r.entry)
}
