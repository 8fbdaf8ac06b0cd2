package gs_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/gs"
)

func TestApplyWriteOnAbsentKey(t *testing.T) {
	v, err := gs.Apply(gs.StoredValue{}, true, gs.Write(gs.CLU64(5)))
	require.NoError(t, err)
	assert.True(t, v.Equal(gs.CLU64(5)))
}

func TestApplyAddOnAbsentKeyFails(t *testing.T) {
	_, err := gs.Apply(gs.StoredValue{}, true, gs.AddU64(1))
	require.Error(t, err)
	tf, ok := err.(*gs.TransformFailure)
	require.True(t, ok)
	assert.Equal(t, gs.CauseKeyNotFound, tf.Cause)
}

func TestApplyAddTypeMismatch(t *testing.T) {
	_, err := gs.Apply(gs.CLString("x"), false, gs.AddU64(1))
	require.Error(t, err)
	tf, ok := err.(*gs.TransformFailure)
	require.True(t, ok)
	assert.Equal(t, gs.CauseTypeMismatch, tf.Cause)
}

func TestApplyAddU64Accumulates(t *testing.T) {
	v, err := gs.Apply(gs.CLU64(10), false, gs.AddU64(5))
	require.NoError(t, err)
	assert.True(t, v.Equal(gs.CLU64(15)))
}

func TestApplyAddU256Overflow(t *testing.T) {
	max256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	existing, err := gs.CLU256(max256)
	require.NoError(t, err)

	_, err = gs.Apply(existing, false, gs.AddU256(big.NewInt(1)))
	require.Error(t, err)
	tf, ok := err.(*gs.TransformFailure)
	require.True(t, ok)
	assert.Equal(t, gs.CauseOverflow, tf.Cause)
}

func TestMergeIsAssociative(t *testing.T) {
	a := gs.AddU64(1)
	b := gs.AddU64(2)
	c := gs.AddU64(3)

	left := gs.Merge(gs.Merge(a, b), c)
	right := gs.Merge(a, gs.Merge(b, c))
	assert.Equal(t, left, right)
}

func TestMergeWriteThenAddFoldsIntoWrite(t *testing.T) {
	merged := gs.Merge(gs.Write(gs.CLU64(10)), gs.AddU64(5))
	v, err := gs.Apply(gs.StoredValue{}, true, merged)
	require.NoError(t, err)
	assert.True(t, v.Equal(gs.CLU64(15)))
}

func TestMergeIdentityIsNeutral(t *testing.T) {
	w := gs.Write(gs.CLI32(3))
	assert.Equal(t, w, gs.Merge(gs.Identity(), w))
	assert.Equal(t, w, gs.Merge(w, gs.Identity()))
}

func TestAdditiveMapMergesSameKey(t *testing.T) {
	m := gs.NewAdditiveMap()
	k := gs.NewAccountKey([32]byte{1})
	m.Add(k, gs.AddU64(1))
	m.Add(k, gs.AddU64(2))

	require.Equal(t, 1, m.Len())
	entries := m.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, gs.AddU64(3), entries[0].Transform)
}

func TestAdditiveMapSortedEntriesDeterministic(t *testing.T) {
	m := gs.NewAdditiveMap()
	k1 := gs.NewAccountKey([32]byte{9})
	k2 := gs.NewAccountKey([32]byte{1})
	m.Add(k1, gs.Write(gs.CLU64(1)))
	m.Add(k2, gs.Write(gs.CLU64(2)))

	sorted := m.SortedEntries()
	require.Len(t, sorted, 2)
	assert.True(t, gs.Address(sorted[0].Key).Compare(gs.Address(sorted[1].Key)) < 0)
}
