package vjson

import (
	"iter"

	"github.com/arakawa-lab/vjson/internal/store"
)

// Array is a borrowed/owned view of a Value known to hold an array payload.
type Array struct{ v Value }

// Value returns a's underlying handle.
func (a Array) Value() Value { return a.v }

// NewArray returns the empty static array singleton.
func NewArray() Value { return heapValue(store.EmptyArrayIndex, tagArray) }

// ArrayWithCapacity returns a fresh, uniquely owned empty array with the
// given backing capacity.
func ArrayWithCapacity(n int) Value {
	return heapValue(store.ArrayAlloc(make([]uint64, 0, n)), tagArray)
}

// Len returns a's element count.
func (a Array) Len() int { return store.ArrayLen(a.v.slot()) }

// Cap returns a's backing capacity.
func (a Array) Cap() int { return store.ArrayCap(a.v.slot()) }

// Get borrows the element at i, if in range. The returned Value is not
// retained; callers that keep it beyond a's lifetime must Clone it.
func (a Array) Get(i int) (Value, bool) {
	w, ok := store.ArrayGet(a.v.slot(), i)

	return Value(w), ok
}

// All ranges over a's elements in order (Go 1.23 range-over-func).
func (a Array) All() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		n := a.Len()
		for i := 0; i < n; i++ {
			w, _ := store.ArrayGet(a.v.slot(), i)
			if !yield(Value(w)) {
				return
			}
		}
	}
}

// uniquify gives a a uniquely owned container before a mutation: the static
// empty singleton is replaced by a fresh empty container, and a shared one
// (refcount > 1) is cloned, retaining every child element's own refcount in
// the clone, so the mutation below never disturbs another holder's view
// (clone-on-write, spec.md §4.5).
func (a *Array) uniquify() {
	switch rc := store.ArrayRefCount(a.v.slot()); {
	case rc < 0:
		a.v = heapValue(store.ArrayAlloc(nil), tagArray)

		return
	case rc <= 1:
		return
	}

	newSlot := store.ArrayClone(a.v.slot())
	for _, w := range store.ArrayElems(newSlot) {
		Value(w).Clone()
	}

	old := a.v
	a.v = heapValue(newSlot, tagArray)
	old.Release()
}

// Set overwrites the element at i, uniquifying first if shared. Returns the
// displaced element (ownership transferred to the caller, who must Release
// it) if i was in range.
func (a *Array) Set(i int, elem Value) (prev Value, ok bool) {
	a.uniquify()

	w, ok := store.ArrayGet(a.v.slot(), i)
	if !ok {
		return Null, false
	}
	store.ArraySet(a.v.slot(), i, uint64(elem))

	return Value(w), true
}

// Push appends elem, transferring ownership of it into the array.
func (a *Array) Push(elem Value) {
	a.uniquify()
	store.ArrayPush(a.v.slot(), uint64(elem))
}

// Pop removes and returns the last element, transferring ownership to the
// caller.
func (a *Array) Pop() (Value, bool) {
	a.uniquify()
	w, ok := store.ArrayPop(a.v.slot())

	return Value(w), ok
}

// Insert inserts elem at position i, shifting subsequent elements right.
func (a *Array) Insert(i int, elem Value) bool {
	a.uniquify()

	return store.ArrayInsert(a.v.slot(), i, uint64(elem))
}

// Remove removes and returns the element at i, preserving order.
func (a *Array) Remove(i int) (Value, bool) {
	a.uniquify()
	w, ok := store.ArrayRemove(a.v.slot(), i)

	return Value(w), ok
}

// SwapRemove removes the element at i in O(1) by moving the last element
// into its place, disrupting order.
func (a *Array) SwapRemove(i int) (Value, bool) {
	a.uniquify()
	w, ok := store.ArraySwapRemove(a.v.slot(), i)

	return Value(w), ok
}

// Clear removes and releases every element.
func (a *Array) Clear() {
	a.uniquify()

	idx := a.v.slot()
	elems := append([]uint64(nil), store.ArrayElems(idx)...)
	store.ArrayClear(idx)
	for _, w := range elems {
		Value(w).Release()
	}
}
