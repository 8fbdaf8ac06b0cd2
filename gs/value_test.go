package gs_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

func TestStoredValueRoundTrip(t *testing.T) {
	u256, err := gs.CLU256(big.NewInt(12345))
	require.NoError(t, err)

	cases := []gs.StoredValue{
		gs.CLI32(-7),
		gs.CLString("hello world"),
		gs.CLU64(1 << 40),
		u256,
		gs.CLKeys([]digest.Hash{digest.Sum([]byte("a")), digest.Sum([]byte("b"))}),
	}

	for _, v := range cases {
		decoded, err := gs.DecodeStoredValue(v.Bytes())
		require.NoError(t, err)
		assert.True(t, v.Equal(decoded))
	}
}

func TestCLKeysDedupesAndSorts(t *testing.T) {
	a := digest.Sum([]byte("a"))
	b := digest.Sum([]byte("b"))
	v1 := gs.CLKeys([]digest.Hash{b, a, a})
	v2 := gs.CLKeys([]digest.Hash{a, b})
	assert.True(t, v1.Equal(v2))
	assert.Equal(t, 2, len(v1.Keys))
}

func TestCLU128RejectsOverflow(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 200)
	_, err := gs.CLU128(huge)
	assert.Error(t, err)
}

func TestCLU256RejectsNegative(t *testing.T) {
	_, err := gs.CLU256(big.NewInt(-1))
	assert.Error(t, err)
}

func TestDecodeStoredValueRejectsMalformed(t *testing.T) {
	_, err := gs.DecodeStoredValue(nil)
	assert.Error(t, err)

	_, err = gs.DecodeStoredValue([]byte{byte(gs.KindU64), 0x01})
	assert.Error(t, err)

	_, err = gs.DecodeStoredValue([]byte{0xFF})
	assert.Error(t, err)
}

func TestAccountKeyAndHashKeyRoundTrip(t *testing.T) {
	var addr [32]byte
	copy(addr[:], []byte("deadbeefdeadbeefdeadbeefdeadbeef"))
	ak := gs.NewAccountKey(addr)
	decoded, err := gs.DecodeKey(ak.Bytes())
	require.NoError(t, err)
	assert.Equal(t, ak, decoded)

	hk := gs.HashKey{Hash: digest.Sum([]byte("x"))}
	decoded2, err := gs.DecodeKey(hk.Bytes())
	require.NoError(t, err)
	assert.Equal(t, hk, decoded2)
}

func TestDecodeKeyRejectsBadInput(t *testing.T) {
	_, err := gs.DecodeKey(nil)
	assert.Error(t, err)

	_, err = gs.DecodeKey([]byte{0xFF, 0x00})
	assert.Error(t, err)
}
