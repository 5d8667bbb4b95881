package vjson

import (
	"iter"

	"github.com/arakawa-lab/vjson/internal/intern"
	"github.com/arakawa-lab/vjson/internal/store"
)

// Object is a borrowed/owned view of a Value known to hold an object
// payload.
type Object struct{ v Value }

// Value returns o's underlying handle.
func (o Object) Value() Value { return o.v }

// NewObject returns the empty static object singleton.
func NewObject() Value { return heapValue(store.EmptyObjectIndex, tagObject) }

// ObjectWithCapacity returns a fresh, uniquely owned empty object with the
// given entry-count capacity hint.
func ObjectWithCapacity(n int) Value {
	return heapValue(store.ObjectAlloc(n), tagObject)
}

// Len returns o's entry count.
func (o Object) Len() int { return store.ObjectLen(o.v.slot()) }

// Cap returns o's entries backing capacity.
func (o Object) Cap() int { return store.ObjectCap(o.v.slot()) }

// Get borrows the value for key, if present. The returned Value is not
// retained; callers that keep it beyond o's lifetime must Clone it.
func (o Object) Get(key string) (Value, bool) {
	keyIdx := intern.Intern(key)
	defer intern.Release(keyIdx)

	w, ok := store.ObjectGet(o.v.slot(), keyIdx)

	return Value(w), ok
}

// All ranges over o's entries in insertion order (Go 1.23 range-over-func).
func (o Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		n := o.Len()
		for i := 0; i < n; i++ {
			keyIdx, w, ok := store.ObjectAt(o.v.slot(), i)
			if !ok {
				return
			}
			if !yield(intern.Bytes(keyIdx), Value(w)) {
				return
			}
		}
	}
}

// Keys ranges over o's keys in insertion order.
func (o Object) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for k := range o.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values ranges over o's values in insertion order.
func (o Object) Values() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		for _, v := range o.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// uniquify gives o a uniquely owned container before a mutation: the static
// empty singleton is replaced by a fresh empty container, and a shared one
// (refcount > 1) is cloned, retaining every child value's own refcount in
// the clone (the keys are already retained by store.ObjectClone), so the
// mutation below never disturbs another holder's view.
func (o *Object) uniquify() {
	switch rc := store.ObjectRefCount(o.v.slot()); {
	case rc < 0:
		o.v = heapValue(store.ObjectAlloc(0), tagObject)

		return
	case rc <= 1:
		return
	}

	newSlot := store.ObjectClone(o.v.slot())
	n := store.ObjectLen(newSlot)
	for i := 0; i < n; i++ {
		_, w, _ := store.ObjectAt(newSlot, i)
		Value(w).Clone()
	}

	old := o.v
	o.v = heapValue(newSlot, tagObject)
	old.Release()
}

// Insert inserts or overwrites key -> val, transferring ownership of val
// into the object. Returns the previous value (ownership transferred to
// the caller) if key was already present.
func (o *Object) Insert(key string, val Value) (prev Value, hadPrev bool) {
	o.uniquify()

	keyIdx := intern.Intern(key)
	p, had := store.ObjectInsert(o.v.slot(), keyIdx, uint64(val))
	if !had {
		return Null, false
	}

	return Value(p), true
}

// Remove removes key, transferring ownership of its value to the caller.
// Uses swap_remove semantics, disrupting insertion order (spec.md §4.6).
func (o *Object) Remove(key string) (Value, bool) {
	o.uniquify()

	keyIdx := intern.Intern(key)
	defer intern.Release(keyIdx)

	_, w, ok := store.ObjectRemove(o.v.slot(), keyIdx)

	return Value(w), ok
}

// RemoveEntry is Remove but also returns the removed key.
func (o *Object) RemoveEntry(key string) (string, Value, bool) {
	o.uniquify()

	keyIdx := intern.Intern(key)
	defer intern.Release(keyIdx)

	k, w, ok := store.ObjectRemove(o.v.slot(), keyIdx)

	return k, Value(w), ok
}

// Clear removes and releases every entry.
func (o *Object) Clear() {
	o.uniquify()

	vals := store.ObjectClear(o.v.slot())
	for _, w := range vals {
		Value(w).Release()
	}
}
