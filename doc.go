// Package vjson implements a memory-compact, pointer-tagged JSON-like value
// representation. A Value is a single uint64 word: either an immediate
// (null/false/true) or a tagged arena slot index carrying one of four heap
// shapes (number, string, array, object). Composite clones are shallow
// refcount bumps; small integers and empty collections never allocate.
//
// The heap shapes live behind internal/store (number/array/object arenas)
// and internal/intern (the concurrent string interner); this package owns
// only the tag-bit packing and the facade built on top of it.
package vjson
