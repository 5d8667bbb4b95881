package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAndGet(t *testing.T) {
	a := New[int](0)

	idx := a.Alloc(42)
	require.Equal(t, 42, *a.Get(idx))
	require.EqualValues(t, 1, a.RefCount(idx))
	require.EqualValues(t, 1, a.AllocCount())
}

func TestRetainReleaseLifecycle(t *testing.T) {
	a := New[string](0)

	idx := a.Alloc("hello")
	a.Retain(idx)
	require.EqualValues(t, 2, a.RefCount(idx))

	freed := a.Release(idx)
	assert.False(t, freed)
	require.EqualValues(t, 1, a.RefCount(idx))

	freed = a.Release(idx)
	assert.True(t, freed)
}

func TestReleaseRecyclesSlot(t *testing.T) {
	a := New[int](0)

	idx1 := a.Alloc(1)
	a.Release(idx1)

	idx2 := a.Alloc(2)
	assert.Equal(t, idx1, idx2, "freed slot should be recycled")
	assert.EqualValues(t, 2, a.AllocCount(), "reuse still counts as an allocation")
	assert.Equal(t, 2, *a.Get(idx2))
}

func TestStaticSlotIsNoOp(t *testing.T) {
	a := New[int](0)
	a.Static(5, 99)

	require.Equal(t, 99, *a.Get(5))
	assert.Less(t, a.RefCount(5), int32(0))

	a.Retain(5)
	assert.Less(t, a.RefCount(5), int32(0))

	freed := a.Release(5)
	assert.False(t, freed)
	assert.Equal(t, 99, *a.Get(5), "static slot value must survive Release")
}

func TestLen(t *testing.T) {
	a := New[int](0)
	assert.Equal(t, 0, a.Len())

	a.Alloc(1)
	a.Alloc(2)
	assert.Equal(t, 2, a.Len())
}
