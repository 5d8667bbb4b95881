// Package hash provides the xxHash64 primitives used to pick interner shards
// and object bucket slots throughout vjson.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string. Used by the string interner
// to place a candidate record into a shard and, within the shard, a bucket.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Bytes computes the xxHash64 of the given byte slice, without requiring the
// caller to allocate a string copy first.
func Bytes(data []byte) uint64 {
	return xxhash.Sum64(data)
}
