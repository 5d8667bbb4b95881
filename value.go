package vjson

import (
	"github.com/arakawa-lab/vjson/errs"
	"github.com/arakawa-lab/vjson/internal/intern"
	"github.com/arakawa-lab/vjson/internal/store"
)

// Value is the one-word handle: either an immediate or a tagged arena slot
// index. See the package doc and SPEC_FULL.md's Go/GC realization note for
// why this replaces a tagged heap pointer.
type Value uint64

// The three immediates. Null doubles as the zero-word niche's successor:
// the raw zero word is never produced by any constructor here.
const (
	Null  Value = 1
	False Value = 2
	True  Value = 3
)

const (
	tagNumber uint64 = 0
	tagString uint64 = 1
	tagArray  uint64 = 2
	tagObject uint64 = 3
)

func heapValue(slot uint32, tag uint64) Value {
	return Value((uint64(slot)+1)<<2 | tag)
}

func (v Value) isHeap() bool { return uint64(v) >= 4 }
func (v Value) tag() uint64  { return uint64(v) & 3 }
func (v Value) slot() uint32 { return uint32(uint64(v)>>2) - 1 }

// Kind reports v's logical type.
func (v Value) Kind() Kind {
	switch v {
	case Null:
		return KindNull
	case False, True:
		return KindBool
	}

	switch v.tag() {
	case tagNumber:
		return KindNumber
	case tagString:
		return KindString
	case tagArray:
		return KindArray
	default:
		return KindObject
	}
}

func (v Value) IsNull() bool   { return v == Null }
func (v Value) IsBool() bool   { return v == True || v == False }
func (v Value) IsTrue() bool   { return v == True }
func (v Value) IsFalse() bool  { return v == False }
func (v Value) IsNumber() bool { return v.isHeap() && v.tag() == tagNumber }
func (v Value) IsString() bool { return v.isHeap() && v.tag() == tagString }
func (v Value) IsArray() bool  { return v.isHeap() && v.tag() == tagArray }
func (v Value) IsObject() bool { return v.isHeap() && v.tag() == tagObject }

// NewBool returns the immediate True or False handle.
func NewBool(b bool) Value {
	if b {
		return True
	}

	return False
}

// NewString interns s and returns a handle to the record.
func NewString(s string) Value {
	return heapValue(intern.Intern(s), tagString)
}

// NewNumberFromI64 returns a number handle for v, using the small table or a
// short-int/wide cell as it fits.
func NewNumberFromI64(v int64) Value {
	return heapValue(store.NumberFromI64(v), tagNumber)
}

// NewNumberFromU64 returns a number handle for v.
func NewNumberFromU64(v uint64) Value {
	return heapValue(store.NumberFromU64(v), tagNumber)
}

// NewNumberFromF64 returns a number handle for v, failing with
// errs.ErrNonFiniteNumber for NaN/±Inf.
func NewNumberFromF64(v float64) (Value, error) {
	idx, ok := store.NumberFromF64(v)
	if !ok {
		return Null, errs.ErrNonFiniteNumber
	}

	return heapValue(idx, tagNumber), nil
}

// AsString borrows v's string content, if v holds one.
func (v Value) AsString() (string, bool) {
	if !v.IsString() {
		return "", false
	}

	return intern.Bytes(v.slot()), true
}

// AsNumber borrows v's number view, if v holds one.
func (v Value) AsNumber() (Number, bool) {
	if !v.IsNumber() {
		return Number{}, false
	}

	return Number{n: store.Get(v.slot())}, true
}

// AsArray borrows v as an Array view, if v holds one.
func (v Value) AsArray() (Array, bool) {
	if !v.IsArray() {
		return Array{}, false
	}

	return Array{v: v}, true
}

// AsObject borrows v as an Object view, if v holds one.
func (v Value) AsObject() (Object, bool) {
	if !v.IsObject() {
		return Object{}, false
	}

	return Object{v: v}, true
}

// IntoArray is spec.md's into_kind for arrays. Since a Value is a plain word
// copied by value, there is nothing to "return unchanged" on mismatch (see
// SPEC_FULL.md §4.1): it simply returns the zero Array and ErrTypeMismatch.
func (v Value) IntoArray() (Array, error) {
	a, ok := v.AsArray()
	if !ok {
		return Array{}, errs.ErrTypeMismatch
	}

	return a, nil
}

// IntoObject is spec.md's into_kind for objects.
func (v Value) IntoObject() (Object, error) {
	o, ok := v.AsObject()
	if !ok {
		return Object{}, errs.ErrTypeMismatch
	}

	return o, nil
}

// ToBool returns v's boolean value, if v is a bool.
func (v Value) ToBool() (bool, bool) {
	switch v {
	case True:
		return true, true
	case False:
		return false, true
	default:
		return false, false
	}
}

// Clone increments the pointee's refcount (a no-op for immediates and
// static slots) and returns the same handle word.
func (v Value) Clone() Value {
	switch v.Kind() {
	case KindNumber:
		store.Retain(v.slot())
	case KindString:
		intern.Retain(v.slot())
	case KindArray:
		store.ArrayRetain(v.slot())
	case KindObject:
		store.ObjectRetain(v.slot())
	}

	return v
}

// Release decrements the pointee's refcount, recursively releasing
// contained values if this was the last reference. Callers that hold a
// Value outside of a containing Array/Object must call Release when done;
// composites call it on their own elements automatically.
func (v Value) Release() {
	switch v.Kind() {
	case KindNumber:
		store.Release(v.slot())
	case KindString:
		intern.Release(v.slot())
	case KindArray:
		elems, freed := store.ArrayRelease(v.slot())
		if freed {
			for _, w := range elems {
				Value(w).Release()
			}
		}
	case KindObject:
		vals, freed := store.ObjectRelease(v.slot())
		if freed {
			for _, w := range vals {
				Value(w).Release()
			}
		}
	}
}

// Variant is a destructured, allocation-free view of v, produced by
// Destructure. Exactly one accessor is meaningful, selected by Kind.
type Variant struct {
	Kind   Kind
	Bool   bool
	Number Number
	String string
	Array  Array
	Object Object
}

// Destructure returns v's tagged view in O(1) with no allocation.
func (v Value) Destructure() Variant {
	k := v.Kind()
	switch k {
	case KindBool:
		b, _ := v.ToBool()
		return Variant{Kind: k, Bool: b}
	case KindNumber:
		n, _ := v.AsNumber()
		return Variant{Kind: k, Number: n}
	case KindString:
		s, _ := v.AsString()
		return Variant{Kind: k, String: s}
	case KindArray:
		a, _ := v.AsArray()
		return Variant{Kind: k, Array: a}
	case KindObject:
		o, _ := v.AsObject()
		return Variant{Kind: k, Object: o}
	default:
		return Variant{Kind: k}
	}
}
