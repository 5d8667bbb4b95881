// Package arena provides the generic refcounted slot store that backs every
// heap-shaped vjson value (number, array, object). A vjson.Value never holds
// a real pointer into one of these arenas; it holds a 1-based slot index
// packed into its own word (see the vjson package's tag scheme). Indirecting
// through an index instead of a raw pointer keeps every payload reachable
// from an ordinary Go slice that the garbage collector scans normally, while
// still giving the spec's refcount-driven free/reuse lifecycle a concrete
// place to live.
package arena

import "sync"

// slot holds one arena-managed payload plus its refcount. refcount < 0 marks
// a static slot (the small-number table, the empty array/object/string
// singletons): Retain and Release on a static slot are no-ops, matching the
// spec's "static-pointed handles have no refcount work" rule.
type slot[T any] struct {
	refcount int32
	value    T
}

// Arena is a generic, mutex-guarded store of refcounted payloads. Each slot
// is heap-allocated once and never moved, so a *T returned by Get remains
// valid even if a concurrent Alloc grows the arena's directory.
type Arena[T any] struct {
	mu     sync.Mutex
	slots  []*slot[T]
	free   []uint32
	allocs uint64
}

// New creates an empty arena. capacityHint pre-sizes the slot directory to
// avoid early reallocation; it is not a hard limit.
func New[T any](capacityHint int) *Arena[T] {
	return &Arena[T]{slots: make([]*slot[T], 0, capacityHint)}
}

// Alloc installs v in a fresh or recycled slot with refcount 1 and returns
// its index. Every call increments the arena's allocation counter, including
// reuse of a freed slot, so tests can observe "this was a fresh allocation"
// the way spec.md's intern-liveness scenario requires.
func (a *Arena[T]) Alloc(v T) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.allocs++

	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[idx].refcount = 1
		a.slots[idx].value = v

		return idx
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, &slot[T]{refcount: 1, value: v})

	return idx
}

// Static installs v at a fixed, caller-chosen index with a sentinel refcount
// so Retain/Release are no-ops. Used once at package init time for the
// small-number table and the empty array/object/string singletons.
func (a *Arena[T]) Static(idx uint32, v T) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for uint32(len(a.slots)) <= idx {
		a.slots = append(a.slots, &slot[T]{})
	}
	a.slots[idx] = &slot[T]{refcount: -1, value: v}
}

// Get returns a stable pointer to the slot's payload. Mutating through it is
// only safe when the caller has established unique ownership (RefCount == 1)
// or is installing a payload it just Alloc'd itself.
func (a *Arena[T]) Get(idx uint32) *T {
	a.mu.Lock()
	p := a.slots[idx]
	a.mu.Unlock()

	return &p.value
}

// RefCount reports the slot's current refcount. A negative result means the
// slot is static.
func (a *Arena[T]) RefCount(idx uint32) int32 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.slots[idx].refcount
}

// Retain increments the slot's refcount. No-op on a static slot.
func (a *Arena[T]) Retain(idx uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.slots[idx].refcount < 0 {
		return
	}
	a.slots[idx].refcount++
}

// Release decrements the slot's refcount and reports whether it reached
// zero. On reaching zero the slot's payload is zeroed (dropping any Go
// references it held so the collector can reclaim them) and the index is
// pushed onto the free list for reuse. Callers are responsible for
// recursively releasing any child Values the payload held before calling
// Release, exactly as spec.md's composite-drop rule requires.
func (a *Arena[T]) Release(idx uint32) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.slots[idx]
	if s.refcount < 0 {
		return false
	}

	s.refcount--
	if s.refcount > 0 {
		return false
	}

	var zero T
	s.value = zero
	a.free = append(a.free, idx)

	return true
}

// AllocCount returns the total number of Alloc calls observed so far,
// including slot reuse. Exposed for allocation-counter based tests.
func (a *Arena[T]) AllocCount() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.allocs
}

// Len returns the number of slots ever created (live + freed), i.e. the
// current size of the slot directory.
func (a *Arena[T]) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.slots)
}
