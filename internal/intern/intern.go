// Package intern implements the process-wide string interner backing
// vjson's String payload: a sharded concurrent set that deduplicates equal
// byte content to a single refcounted record, so two strings with the same
// bytes always resolve to the same slot index (and therefore compare equal
// by index alone).
package intern

import (
	"sync"

	"github.com/arakawa-lab/vjson/internal/hash"
)

// shardCount must be a power of two; Intern/Retain/Release all pick a shard
// from the content hash's low bits, so non-colliding shards never block
// each other (spec.md §5's "no global lock required" guarantee).
const shardCount = 16

// EmptyIndex is the reserved slot for the empty string, a static singleton
// that never enters the content index and never takes the refcount path.
const EmptyIndex uint32 = 0

type record struct {
	refcount int32
	hash     uint64
	data     string
}

type shard struct {
	mu     sync.Mutex
	byData map[string]uint32
}

var shards [shardCount]shard

// dirMu guards the slot directory itself (its length and free list); it is
// always taken for the shortest possible time and never across a shard's
// own critical section below the top level of Intern/Release.
var (
	dirMu  sync.Mutex
	dir    []*record
	free   []uint32
	allocs uint64
)

func init() {
	for i := range shards {
		shards[i].byData = make(map[string]uint32)
	}
	dir = append(dir, &record{refcount: -1, hash: hash.ID(""), data: ""})
}

func shardFor(h uint64) *shard {
	return &shards[h&(shardCount-1)]
}

func allocSlot(r *record) uint32 {
	dirMu.Lock()
	defer dirMu.Unlock()

	allocs++

	if n := len(free); n > 0 {
		idx := free[n-1]
		free = free[:n-1]
		dir[idx] = r

		return idx
	}

	idx := uint32(len(dir))
	dir = append(dir, r)

	return idx
}

func recordAt(idx uint32) *record {
	dirMu.Lock()
	defer dirMu.Unlock()

	return dir[idx]
}

// Intern returns the slot index for data's content, incrementing (or
// initializing to 1) the backing record's refcount. Concurrent Intern calls
// with byte-equal content always return the same index: the per-shard lock
// serializes the "does this content already live here" decision against any
// racing Release that might otherwise free the same slot out from under it.
func Intern(data string) uint32 {
	if data == "" {
		return EmptyIndex
	}

	h := hash.ID(data)
	sh := shardFor(h)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	if idx, ok := sh.byData[data]; ok {
		dirMu.Lock()
		dir[idx].refcount++
		dirMu.Unlock()

		return idx
	}

	idx := allocSlot(&record{refcount: 1, hash: h, data: data})
	sh.byData[data] = idx

	return idx
}

// Retain increments idx's refcount. No-op for the empty string singleton.
func Retain(idx uint32) {
	if idx == EmptyIndex {
		return
	}

	r := recordAt(idx)
	sh := shardFor(r.hash)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	r.refcount++
}

// Release decrements idx's refcount and reports whether the record was
// freed (refcount reached zero). A freed record is removed from its shard's
// content index before the slot is returned to the free list, so a
// subsequent Intern of the same content is observably a fresh allocation.
func Release(idx uint32) bool {
	if idx == EmptyIndex {
		return false
	}

	r := recordAt(idx)
	sh := shardFor(r.hash)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	r.refcount--
	if r.refcount > 0 {
		return false
	}

	delete(sh.byData, r.data)

	dirMu.Lock()
	dir[idx] = nil
	free = append(free, idx)
	dirMu.Unlock()

	return true
}

// Bytes returns the interned content at idx.
func Bytes(idx uint32) string {
	return recordAt(idx).data
}

// Hash returns the cached content hash at idx, reused directly by the
// object map's bucket placement to avoid rehashing the key string.
func Hash(idx uint32) uint64 {
	return recordAt(idx).hash
}

// RefCount reports idx's current refcount. Negative means static.
func RefCount(idx uint32) int32 {
	r := recordAt(idx)
	sh := shardFor(r.hash)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	return r.refcount
}

// AllocCount returns the total number of fresh/recycled slot allocations
// observed so far, for allocation-counter based tests.
func AllocCount() uint64 {
	dirMu.Lock()
	defer dirMu.Unlock()

	return allocs
}
