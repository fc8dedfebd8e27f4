package pool

import "errors"

var (
	// ErrNotPending is returned by Reservation.Enable and
	// Reservation.AcquireValue when the underlying entry is no longer
	// pending, because a concurrent caller already enabled or removed it.
	ErrNotPending = errors.New("entry is not in the pending state")

	// ErrInvalidMultiplex is returned by SetMaxMultiplex for n < 1.
	ErrInvalidMultiplex = errors.New("maxMultiplex must be >= 1")

	// ErrInvalidUsageCount is returned by SetMaxUsageCount for k == 0.
	ErrInvalidUsageCount = errors.New("maxUsageCount must be != 0")

	// ErrInvalidCapacity is returned by NewPool for a non-positive
	// maxEntries or a negative cacheSize.
	ErrInvalidCapacity = errors.New("invalid pool capacity")
)

// errOverRelease is the message of the panic raised when tryRelease
// observes a negative post-decrement multiplex count. This is a caller
// protocol violation (double release), not a condition the pool can
// recover from without leaving the multiplex counter permanently wrong.
const errOverRelease = "pool: tryRelease observed a negative post-decrement multiplex count (double release)"
