package gs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/gs"
)

func TestProtocolVersionOrdering(t *testing.T) {
	v1 := gs.NewProtocolVersion(1, 0, 0)
	v2 := gs.NewProtocolVersion(1, 1, 0)
	assert.Equal(t, -1, v1.Compare(v2))
	assert.Equal(t, 1, v2.Compare(v1))
	assert.Equal(t, 0, v1.Compare(v1))
	assert.Equal(t, "1.0.0", v1.String())
}

func TestProtocolVersionRoundTrip(t *testing.T) {
	v := gs.NewProtocolVersion(3, 7, 2)
	decoded, err := gs.DecodeProtocolVersion(v.Bytes())
	require.NoError(t, err)
	assert.Equal(t, v, decoded)
}

func TestProtocolDataRoundTrip(t *testing.T) {
	d := gs.ProtocolData{WasmCosts: []byte{1, 2, 3, 4}, MaxAssociatedKeys: 10}
	decoded, err := gs.DecodeProtocolData(d.Bytes())
	require.NoError(t, err)
	assert.Equal(t, d, decoded)
}

func TestProtocolDataRejectsMalformed(t *testing.T) {
	_, err := gs.DecodeProtocolData([]byte{0, 0})
	assert.Error(t, err)
}
