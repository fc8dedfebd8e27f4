// Package pool implements a generic, concurrent object pool.
//
// Entries support multiplexed acquisition (an entry may be held by several
// callers at once, up to a configurable cap), usage-count retirement (an
// entry stops accepting acquisitions once it has been acquired a
// configurable number of times over its lifetime), and a per-goroutine
// cache layered over a shared, lock-free entry list for the common
// acquire/release hot path.
//
// Acquisition never blocks. A caller that finds no acquirable entry gets
// back an absent result and is expected to implement any waiting policy
// externally.
package pool
