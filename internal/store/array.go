package store

import "github.com/arakawa-lab/vjson/internal/arena"

// Array is the inline-header vector payload: a flat slice of child values,
// each an opaque uint64 word that the vjson package packs/unpacks as a
// Value. Store never interprets these words; it only moves them around.
type Array struct {
	elems []uint64
}

var arrayArena = arena.New[Array](16)

// EmptyArrayIndex is the static empty-array singleton every NewArray()
// returns until the caller's first mutating operation.
const EmptyArrayIndex uint32 = 0

func init() {
	arrayArena.Static(EmptyArrayIndex, Array{})
}

// ArrayAlloc installs a freshly owned container with the given elements
// (refcount 1) and returns its slot index. Used for with-capacity
// constructors, building from an iterator, and clone-on-write copies.
func ArrayAlloc(elems []uint64) uint32 {
	return arrayArena.Alloc(Array{elems: elems})
}

// ArrayLen returns the element count at idx.
func ArrayLen(idx uint32) int { return len(arrayArena.Get(idx).elems) }

// ArrayCap returns the backing capacity at idx.
func ArrayCap(idx uint32) int { return cap(arrayArena.Get(idx).elems) }

// ArrayElems returns a read-only view of idx's elements. Callers must not
// write through the returned slice unless they have already established
// unique ownership.
func ArrayElems(idx uint32) []uint64 { return arrayArena.Get(idx).elems }

// ArrayGet returns the element at position i, if in range.
func ArrayGet(idx uint32, i int) (uint64, bool) {
	e := arrayArena.Get(idx).elems
	if i < 0 || i >= len(e) {
		return 0, false
	}

	return e[i], true
}

// ArrayRetain increments idx's refcount.
func ArrayRetain(idx uint32) { arrayArena.Retain(idx) }

// ArrayRefCount reports idx's current refcount (negative means static).
func ArrayRefCount(idx uint32) int32 { return arrayArena.RefCount(idx) }

// ArrayAllocCount returns the array arena's total allocation count.
func ArrayAllocCount() uint64 { return arrayArena.AllocCount() }

// ArrayRelease decrements idx's refcount. If it reaches zero the slot is
// freed and the detached element words are returned so the caller can
// recursively release each one before the words become unreachable.
func ArrayRelease(idx uint32) (elems []uint64, freed bool) {
	willFree := arrayArena.RefCount(idx) == 1
	if willFree {
		elems = arrayArena.Get(idx).elems
	}

	freed = arrayArena.Release(idx)

	return elems, freed
}

// ArrayClone copies idx's container (a shallow copy of its child words)
// into a freshly owned slot. The caller is responsible for retaining each
// child word's own refcount, since two containers now reference them.
func ArrayClone(idx uint32) uint32 {
	src := arrayArena.Get(idx).elems
	dst := append([]uint64(nil), src...)

	return ArrayAlloc(dst)
}

func mustUnique(refcount int32) {
	if refcount != 1 {
		panic("store: mutation requires unique ownership (refcount == 1)")
	}
}

// ArraySet overwrites the element at position i. Requires unique ownership.
func ArraySet(idx uint32, i int, v uint64) bool {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	if i < 0 || i >= len(a.elems) {
		return false
	}
	a.elems[i] = v

	return true
}

// ArrayPush appends v, growing the backing slice by at least doubling (and
// at least to capacity 4 on the first growth) when full. Requires unique
// ownership; idx must not be EmptyArrayIndex (callers must clone the empty
// singleton into a fresh container before the first push).
func ArrayPush(idx uint32, v uint64) {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	if len(a.elems) == cap(a.elems) {
		newCap := cap(a.elems) * 2
		if newCap < 4 {
			newCap = 4
		}
		grown := make([]uint64, len(a.elems), newCap)
		copy(grown, a.elems)
		a.elems = grown
	}
	a.elems = append(a.elems, v)
}

// ArrayPop removes and returns the last element, if any. Requires unique ownership.
func ArrayPop(idx uint32) (uint64, bool) {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	n := len(a.elems)
	if n == 0 {
		return 0, false
	}
	v := a.elems[n-1]
	a.elems = a.elems[:n-1]

	return v, true
}

// ArrayInsert inserts v at position i, shifting subsequent elements right.
// Requires unique ownership.
func ArrayInsert(idx uint32, i int, v uint64) bool {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	if i < 0 || i > len(a.elems) {
		return false
	}
	a.elems = append(a.elems, 0)
	copy(a.elems[i+1:], a.elems[i:])
	a.elems[i] = v

	return true
}

// ArrayRemove removes and returns the element at i, shifting subsequent
// elements left (preserving order). Requires unique ownership.
func ArrayRemove(idx uint32, i int) (uint64, bool) {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	if i < 0 || i >= len(a.elems) {
		return 0, false
	}
	v := a.elems[i]
	a.elems = append(a.elems[:i], a.elems[i+1:]...)

	return v, true
}

// ArraySwapRemove removes the element at i in O(1) by moving the last
// element into its place, disrupting order. Requires unique ownership.
func ArraySwapRemove(idx uint32, i int) (uint64, bool) {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	n := len(a.elems)
	if i < 0 || i >= n {
		return 0, false
	}
	v := a.elems[i]
	a.elems[i] = a.elems[n-1]
	a.elems = a.elems[:n-1]

	return v, true
}

// ArrayClear truncates idx's elements to empty, keeping the backing
// capacity. Requires unique ownership.
func ArrayClear(idx uint32) {
	mustUnique(arrayArena.RefCount(idx))

	a := arrayArena.Get(idx)
	a.elems = a.elems[:0]
}
