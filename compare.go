package vjson

import (
	"strings"

	"github.com/arakawa-lab/vjson/internal/hash"
	"github.com/arakawa-lab/vjson/internal/intern"
	"github.com/arakawa-lab/vjson/internal/store"
)

// rank places v in the total order null < false < true < number < string <
// array < object (spec.md §4.7).
func rank(v Value) int {
	switch v {
	case Null:
		return 0
	case False:
		return 1
	case True:
		return 2
	}

	switch v.Kind() {
	case KindNumber:
		return 3
	case KindString:
		return 4
	case KindArray:
		return 5
	default:
		return 6
	}
}

// Compare orders a and b structurally: null < false < true < number <
// string < array < object, with composites compared elementwise (arrays)
// or by sorted key (objects, to stay consistent with Equal's
// order-insensitive bag semantics).
func Compare(a, b Value) int {
	ra, rb := rank(a), rank(b)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	}

	switch a.Kind() {
	case KindNumber:
		na, _ := a.AsNumber()
		nb, _ := b.AsNumber()

		return store.Compare(na.n, nb.n)
	case KindString:
		sa, _ := a.AsString()
		sb, _ := b.AsString()

		return strings.Compare(sa, sb)
	case KindArray:
		return compareArrays(a, b)
	case KindObject:
		return compareObjects(a, b)
	default:
		return 0
	}
}

// Equal reports deep structural equality, agreeing with Hash.
func Equal(a, b Value) bool { return Compare(a, b) == 0 }

func compareArrays(a, b Value) int {
	aa, _ := a.AsArray()
	bb, _ := b.AsArray()

	la, lb := aa.Len(), bb.Len()
	n := la
	if lb < n {
		n = lb
	}

	for i := 0; i < n; i++ {
		ea, _ := aa.Get(i)
		eb, _ := bb.Get(i)
		if c := Compare(ea, eb); c != 0 {
			return c
		}
	}

	switch {
	case la < lb:
		return -1
	case la > lb:
		return 1
	default:
		return 0
	}
}

// compareObjects orders objects by sorted-key comparison so it agrees with
// Equal's order-insensitive set-of-entries semantics: two objects with the
// same entries compare equal regardless of insertion order.
func compareObjects(a, b Value) int {
	oa, _ := a.AsObject()
	ob, _ := b.AsObject()

	ka := sortedKeys(oa)
	kb := sortedKeys(ob)

	n := len(ka)
	if len(kb) < n {
		n = len(kb)
	}

	for i := 0; i < n; i++ {
		if c := strings.Compare(ka[i], kb[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(ka) < len(kb):
		return -1
	case len(ka) > len(kb):
		return 1
	}

	for _, k := range ka {
		va, _ := oa.Get(k)
		vb, _ := ob.Get(k)
		if c := Compare(va, vb); c != 0 {
			return c
		}
	}

	return 0
}

func sortedKeys(o Object) []string {
	keys := make([]string, 0, o.Len())
	for k := range o.Keys() {
		keys = append(keys, k)
	}
	sortStrings(keys)

	return keys
}

// sortStrings is a small insertion sort; object key counts are expected to
// stay modest (this is used only by Compare, not the hot insert/get path).
func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

// combine folds h2 into h1 (boost::hash_combine's mixing constant).
func combine(h1, h2 uint64) uint64 {
	return h1 ^ (h2 + 0x9e3779b97f4a7c15 + (h1 << 6) + (h1 >> 2))
}

// Hash returns a hash consistent with Equal: structurally equal values hash
// identically regardless of number shape or object insertion order (objects
// combine their entries order-insensitively per spec.md §4.6). Arrays hash
// their elements in order, so reordering an array changes its hash (spec.md
// §4.5).
func Hash(v Value) uint64 {
	switch v {
	case Null:
		return 0
	case False:
		return 1
	case True:
		return 2
	}

	switch v.Kind() {
	case KindNumber:
		n, _ := v.AsNumber()

		return store.Hash(n.n)
	case KindString:
		return intern.Hash(v.slot())
	case KindArray:
		a, _ := v.AsArray()
		h := uint64(14695981039346656037)
		for elem := range a.All() {
			h = combine(h, Hash(elem))
		}

		return h
	case KindObject:
		o, _ := v.AsObject()
		h := uint64(0)
		for k, val := range o.All() {
			h ^= combine(hash.ID(k), Hash(val))
		}

		return h
	default:
		return 0
	}
}
