package digest_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/globalstate/engine/digest"
)

func TestSumIsDeterministic(t *testing.T) {
	a := digest.Sum([]byte("hello"))
	b := digest.Sum([]byte("hello"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, digest.Sum([]byte("world")))
}

func TestZero(t *testing.T) {
	assert.True(t, digest.Zero.IsZero())
	assert.False(t, digest.Sum([]byte("x")).IsZero())
}

func TestParseRoundTrip(t *testing.T) {
	h := digest.Sum([]byte("round-trip"))
	parsed, err := digest.Parse(h.String())
	assert.NoError(t, err)
	assert.Equal(t, h, parsed)
}

func TestParseRejectsWrongLength(t *testing.T) {
	_, err := digest.Parse("0x1234")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	h := digest.Sum([]byte("json"))
	b, err := json.Marshal(h)
	assert.NoError(t, err)

	var got digest.Hash
	assert.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, h, got)
}

func TestCompare(t *testing.T) {
	a := digest.Hash{0x01}
	b := digest.Hash{0x02}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}
