package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arakawa-lab/vjson/internal/intern"
)

func TestEmptyObjectIsStatic(t *testing.T) {
	assert.Less(t, ObjectRefCount(EmptyObjectIndex), int32(0))
	assert.Equal(t, 0, ObjectLen(EmptyObjectIndex))
}

func TestObjectInsertGetOverwrite(t *testing.T) {
	idx := ObjectAlloc(0)

	k := intern.Intern("name")
	_, had := ObjectInsert(idx, k, 111)
	assert.False(t, had)

	v, ok := ObjectGet(idx, k)
	require.True(t, ok)
	assert.EqualValues(t, 111, v)

	k2 := intern.Intern("name")
	prev, had := ObjectInsert(idx, k2, 222)
	assert.True(t, had)
	assert.EqualValues(t, 111, prev)

	v, ok = ObjectGet(idx, k2)
	require.True(t, ok)
	assert.EqualValues(t, 222, v)
	assert.Equal(t, 1, ObjectLen(idx))
}

func TestObjectGrowsPastLoadFactor(t *testing.T) {
	idx := ObjectAlloc(0)

	const n = 100
	keys := make([]uint32, n)
	for i := 0; i < n; i++ {
		keys[i] = intern.Intern(string(rune('a')) + itoaShim(i))
		ObjectInsert(idx, keys[i], uint64(i))
	}

	assert.Equal(t, n, ObjectLen(idx))
	for i := 0; i < n; i++ {
		v, ok := ObjectGet(idx, keys[i])
		require.True(t, ok)
		assert.EqualValues(t, i, v)
	}
}

func itoaShim(i int) string {
	if i == 0 {
		return "0"
	}
	digits := []byte{}
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}

	return string(digits)
}

func TestObjectRemoveSwapsAndReleasesKey(t *testing.T) {
	idx := ObjectAlloc(0)
	ka := intern.Intern("alpha")
	kb := intern.Intern("beta")
	kc := intern.Intern("gamma")

	ObjectInsert(idx, ka, 1)
	ObjectInsert(idx, kb, 2)
	ObjectInsert(idx, kc, 3)

	before := intern.AllocCount()
	_ = before

	key, val, ok := ObjectRemove(idx, ka)
	require.True(t, ok)
	assert.Equal(t, "alpha", key)
	assert.EqualValues(t, 1, val)
	assert.Equal(t, 2, ObjectLen(idx))

	// ka's intern record was released with the entry, so look "alpha" up
	// through a fresh reference rather than the released index.
	kaAgain := intern.Intern("alpha")
	defer intern.Release(kaAgain)
	_, ok = ObjectGet(idx, kaAgain)
	assert.False(t, ok)

	v, ok := ObjectGet(idx, kb)
	require.True(t, ok)
	assert.EqualValues(t, 2, v)
	v, ok = ObjectGet(idx, kc)
	require.True(t, ok)
	assert.EqualValues(t, 3, v)
}

func TestObjectCloneIsIndependent(t *testing.T) {
	idx := ObjectAlloc(0)
	k := intern.Intern("shared")
	ObjectInsert(idx, k, 1)

	clone := ObjectClone(idx)
	require.NotEqual(t, idx, clone)

	k2 := intern.Intern("shared")
	ObjectInsert(clone, k2, 2)

	v, _ := ObjectGet(idx, k)
	assert.EqualValues(t, 1, v)
	v, _ = ObjectGet(clone, k)
	assert.EqualValues(t, 2, v)
}

func TestObjectReleaseReturnsValsWhenFreed(t *testing.T) {
	idx := ObjectAlloc(0)
	k := intern.Intern("only")
	ObjectInsert(idx, k, 42)

	vals, freed := ObjectRelease(idx)
	assert.True(t, freed)
	assert.Equal(t, []uint64{42}, vals)
}

func TestObjectClearReleasesKeysAndReturnsVals(t *testing.T) {
	idx := ObjectAlloc(0)
	ka := intern.Intern("x")
	kb := intern.Intern("y")
	ObjectInsert(idx, ka, 10)
	ObjectInsert(idx, kb, 20)

	vals := ObjectClear(idx)
	assert.ElementsMatch(t, []uint64{10, 20}, vals)
	assert.Equal(t, 0, ObjectLen(idx))

	// Clear released ka's intern record, so look "x" up through a fresh
	// reference rather than the released index.
	kx := intern.Intern("x")
	defer intern.Release(kx)
	_, ok := ObjectGet(idx, kx)
	assert.False(t, ok)
}

func TestObjectMutationRequiresUniqueOwnership(t *testing.T) {
	idx := ObjectAlloc(0)
	ObjectRetain(idx)
	defer ObjectRelease(idx)
	defer ObjectRelease(idx)

	k := intern.Intern("z")
	defer intern.Release(k)

	assert.Panics(t, func() { ObjectInsert(idx, k, 1) })
}
