package store

import (
	"github.com/arakawa-lab/vjson/internal/arena"
	"github.com/arakawa-lab/vjson/internal/intern"
)

// objEntry is one (key, value) pair in insertion-order storage. val is an
// opaque uint64 word the vjson package packs/unpacks as a Value; keyIdx is
// the interned key's slot index, which the Object owns a reference to.
type objEntry struct {
	keyIdx uint32
	val    uint64
}

// Object is the inline-header map payload: entries in insertion order plus
// an open-addressed index (table) mapping a key's hash to its entries slot.
type Object struct {
	entries []objEntry
	table   []int32
}

const (
	bucketEmpty     int32 = -1
	bucketTombstone int32 = -2
)

var objectArena = arena.New[Object](16)

// EmptyObjectIndex is the static empty-object singleton every NewObject()
// returns until the caller's first Insert.
const EmptyObjectIndex uint32 = 0

func init() {
	objectArena.Static(EmptyObjectIndex, Object{})
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}

func newBucketTable(n int) []int32 {
	t := make([]int32, n)
	for i := range t {
		t[i] = bucketEmpty
	}

	return t
}

// bucketCountFor sizes the table so entries/buckets stays under 7/8.
func bucketCountFor(capacity int) int {
	if capacity < 4 {
		capacity = 4
	}

	return nextPow2(capacity*8/7 + 1)
}

// ObjectAlloc installs a freshly owned container with the given capacity
// hint (refcount 1) and returns its slot index.
func ObjectAlloc(capacityHint int) uint32 {
	if capacityHint < 0 {
		capacityHint = 0
	}

	o := Object{
		entries: make([]objEntry, 0, capacityHint),
		table:   newBucketTable(bucketCountFor(capacityHint)),
	}

	return objectArena.Alloc(o)
}

// ObjectLen returns the live entry count at idx.
func ObjectLen(idx uint32) int { return len(objectArena.Get(idx).entries) }

// ObjectCap returns the entries backing capacity at idx.
func ObjectCap(idx uint32) int { return cap(objectArena.Get(idx).entries) }

// ObjectRetain increments idx's refcount.
func ObjectRetain(idx uint32) { objectArena.Retain(idx) }

// ObjectRefCount reports idx's current refcount (negative means static).
func ObjectRefCount(idx uint32) int32 { return objectArena.RefCount(idx) }

// ObjectAllocCount returns the object arena's total allocation count.
func ObjectAllocCount() uint64 { return objectArena.AllocCount() }

// ObjectAt returns the key's interned slot index and value word at
// insertion-order position i (the iteration order contract), or ok=false
// if i is out of range.
func ObjectAt(idx uint32, i int) (keyIdx uint32, val uint64, ok bool) {
	o := objectArena.Get(idx)
	if i < 0 || i >= len(o.entries) {
		return 0, 0, false
	}
	e := o.entries[i]

	return e.keyIdx, e.val, true
}

// probe walks the open-addressed table starting at keyIdx's hash bucket,
// returning the slot to use (an existing match, the first tombstone seen,
// or the first empty slot) and whether an existing entry was found there.
func probe(o *Object, keyIdx uint32, h uint64) (slot int, found bool) {
	mask := uint64(len(o.table) - 1)
	i := h & mask
	firstTombstone := -1

	for {
		b := o.table[i]
		switch {
		case b == bucketEmpty:
			if firstTombstone >= 0 {
				return firstTombstone, false
			}

			return int(i), false
		case b == bucketTombstone:
			if firstTombstone < 0 {
				firstTombstone = int(i)
			}
		default:
			if o.entries[b].keyIdx == keyIdx {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}
}

func needsGrow(o *Object) bool {
	return len(o.entries) == cap(o.entries) || len(o.entries)+1 > len(o.table)*7/8
}

func growObject(o *Object) {
	newCap := cap(o.entries) * 2
	if newCap < 8 {
		newCap = 8
	}

	grown := make([]objEntry, len(o.entries), newCap)
	copy(grown, o.entries)
	o.entries = grown
	o.table = newBucketTable(bucketCountFor(newCap))

	for i, e := range o.entries {
		h := intern.Hash(e.keyIdx)
		slot, _ := probe(o, e.keyIdx, h)
		o.table[slot] = int32(i)
	}
}

// ObjectGet looks up keyIdx, returning its value word if present.
func ObjectGet(idx uint32, keyIdx uint32) (uint64, bool) {
	o := objectArena.Get(idx)
	if len(o.entries) == 0 {
		return 0, false
	}
	h := intern.Hash(keyIdx)
	slot, found := probe(o, keyIdx, h)
	if !found {
		return 0, false
	}

	return o.entries[o.table[slot]].val, true
}

// ObjectInsert inserts or overwrites keyIdx -> val, returning the previous
// value if one existed. On success, ownership of the keyIdx intern
// reference passed in is transferred to the object if this is a new key
// (one reference per live key); on overwrite the caller's just-interned
// duplicate reference is released since the object already owns one.
// Requires unique ownership.
func ObjectInsert(idx uint32, keyIdx uint32, val uint64) (prev uint64, hadPrev bool) {
	mustUnique(objectArena.RefCount(idx))

	o := objectArena.Get(idx)
	h := intern.Hash(keyIdx)

	if slot, found := probe(o, keyIdx, h); found {
		e := o.table[slot]
		prev = o.entries[e].val
		o.entries[e].val = val
		intern.Release(keyIdx)

		return prev, true
	}

	if needsGrow(o) {
		growObject(o)
	}

	slot, _ := probe(o, keyIdx, h)
	o.entries = append(o.entries, objEntry{keyIdx: keyIdx, val: val})
	o.table[slot] = int32(len(o.entries) - 1)

	return 0, false
}

// ObjectRemove removes keyIdx via swap_remove semantics (spec.md §4.6): the
// vacated slot is backfilled with the last entry, disrupting insertion
// order for everything after the removed key. Returns the removed key's
// bytes and value. Requires unique ownership.
func ObjectRemove(idx uint32, keyIdx uint32) (key string, val uint64, ok bool) {
	mustUnique(objectArena.RefCount(idx))

	o := objectArena.Get(idx)
	h := intern.Hash(keyIdx)

	slot, found := probe(o, keyIdx, h)
	if !found {
		return "", 0, false
	}

	entryIdx := o.table[slot]
	removed := o.entries[entryIdx]
	o.table[slot] = bucketTombstone

	lastIdx := len(o.entries) - 1
	if int(entryIdx) != lastIdx {
		last := o.entries[lastIdx]
		lastSlot, lastFound := probe(o, last.keyIdx, intern.Hash(last.keyIdx))
		if lastFound {
			o.table[lastSlot] = entryIdx
		}
		o.entries[entryIdx] = last
	}
	o.entries = o.entries[:lastIdx]

	key = intern.Bytes(removed.keyIdx)
	intern.Release(removed.keyIdx)

	return key, removed.val, true
}

// ObjectClear empties idx, releasing every key's intern reference and
// returning the detached value words for the caller to release. Requires
// unique ownership.
func ObjectClear(idx uint32) []uint64 {
	mustUnique(objectArena.RefCount(idx))

	o := objectArena.Get(idx)
	vals := make([]uint64, len(o.entries))
	for i, e := range o.entries {
		vals[i] = e.val
		intern.Release(e.keyIdx)
	}
	o.entries = o.entries[:0]
	o.table = newBucketTable(len(o.table))

	return vals
}

// ObjectClone copies idx's container into a freshly owned slot, retaining
// each key's intern reference (the clone now owns its own reference), and
// returns the new slot index. The child value words are copied but not
// retained: the caller retains each one's own refcount (read back via
// ObjectAt), since two containers now reference them.
func ObjectClone(idx uint32) uint32 {
	src := objectArena.Get(idx)
	entries := make([]objEntry, len(src.entries))
	copy(entries, src.entries)
	for _, e := range entries {
		intern.Retain(e.keyIdx)
	}
	table := make([]int32, len(src.table))
	copy(table, src.table)

	return objectArena.Alloc(Object{entries: entries, table: table})
}

// ObjectRelease decrements idx's refcount. If it reaches zero, every
// entry's key intern reference is released and the detached value words
// are returned so the caller can recursively release each one.
func ObjectRelease(idx uint32) (vals []uint64, freed bool) {
	willFree := objectArena.RefCount(idx) == 1
	if willFree {
		o := objectArena.Get(idx)
		vals = make([]uint64, len(o.entries))
		for i, e := range o.entries {
			vals[i] = e.val
			intern.Release(e.keyIdx)
		}
	}

	freed = objectArena.Release(idx)

	return vals, freed
}
