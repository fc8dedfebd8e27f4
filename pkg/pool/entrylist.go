package pool

import "sync/atomic"

// entryList is an insertion-ordered, copy-on-write collection of entries.
// append must run under the pool's reservation lock, which serializes it
// against other appends and against the capacity check in Reserve. remove
// is a lock-free CAS loop; append also publishes with a CAS, so a removal
// that lands between append's load and its publish makes append retry
// instead of being overwritten.
type entryList[T any] struct {
	snapshot atomic.Pointer[[]*Entry[T]]
}

func newEntryList[T any]() *entryList[T] {
	l := &entryList[T]{}
	empty := make([]*Entry[T], 0)
	l.snapshot.Store(&empty)
	return l
}

// load returns the current snapshot slice. Safe for concurrent
// iteration; callers must treat the returned slice as read-only.
func (l *entryList[T]) load() []*Entry[T] {
	return *l.snapshot.Load()
}

func (l *entryList[T]) size() int {
	return len(l.load())
}

// append must only be called while holding the pool's reservation lock.
func (l *entryList[T]) append(e *Entry[T]) {
	for {
		oldPtr := l.snapshot.Load()
		old := *oldPtr
		next := make([]*Entry[T], len(old)+1)
		copy(next, old)
		next[len(old)] = e
		if l.snapshot.CompareAndSwap(oldPtr, &next) {
			return
		}
	}
}

// remove unlinks e from the list, if still present. A miss (already
// removed by a concurrent caller, or never appended) is a silent no-op.
func (l *entryList[T]) remove(e *Entry[T]) {
	for {
		old := l.snapshot.Load()
		oldSlice := *old

		idx := -1
		for i, v := range oldSlice {
			if v == e {
				idx = i
				break
			}
		}
		if idx < 0 {
			return
		}

		next := make([]*Entry[T], 0, len(oldSlice)-1)
		next = append(next, oldSlice[:idx]...)
		next = append(next, oldSlice[idx+1:]...)

		if l.snapshot.CompareAndSwap(old, &next) {
			return
		}
	}
}

// clear atomically empties the list and returns the prior snapshot for
// the caller to drain.
func (l *entryList[T]) clear() []*Entry[T] {
	empty := make([]*Entry[T], 0)
	old := l.snapshot.Swap(&empty)
	return *old
}
