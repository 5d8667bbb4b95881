package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmallTableNoAlloc(t *testing.T) {
	before := AllocCount()

	for _, v := range []int64{0, 1, -1, 255, 383} {
		idx := NumberFromI64(v)
		assert.Less(t, RefCount(idx), int32(0), "value %d should be static", v)
	}

	assert.Equal(t, before, AllocCount(), "small-table values must not allocate")

	idx := NumberFromI64(384)
	assert.GreaterOrEqual(t, RefCount(idx), int32(1))
	assert.Equal(t, before+1, AllocCount(), "384 falls outside the small table")
}

func TestNonFiniteRejected(t *testing.T) {
	_, ok := NumberFromF64(math.NaN())
	assert.False(t, ok)

	_, ok = NumberFromF64(math.Inf(1))
	assert.False(t, ok)

	_, ok = NumberFromF64(math.Inf(-1))
	assert.False(t, ok)
}

func TestIntFloatEquality(t *testing.T) {
	i := Get(NumberFromI64(2))
	f, ok := NumberFromF64(2.0)
	require.True(t, ok)
	fn := Get(f)

	assert.True(t, Equal(i, fn))
	assert.Equal(t, Hash(i), Hash(fn))
	assert.False(t, i.HasDecimalPoint)
	assert.True(t, fn.HasDecimalPoint)
}

func TestLargeMagnitudeComparison(t *testing.T) {
	big1 := Get(NumberFromU64(math.MaxUint64))
	big2 := Get(NumberFromU64(math.MaxUint64 - 1))
	assert.Equal(t, 1, Compare(big1, big2))
	assert.Equal(t, -1, Compare(big2, big1))
}

func TestNegativeVsUnsigned(t *testing.T) {
	neg := Get(NumberFromI64(-1))
	pos := Get(NumberFromU64(math.MaxUint64))
	assert.Equal(t, -1, Compare(neg, pos))
	assert.Equal(t, 1, Compare(pos, neg))
}
