package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/kv"
)

func TestMemStoreGetPutDelete(t *testing.T) {
	s := kv.NewMemStore()
	defer s.Close()

	_, err := s.Get([]byte("k"))
	assert.True(t, s.IsNotFound(err))

	require.NoError(t, s.Put([]byte("k"), []byte("v")))
	got, err := s.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, s.Delete([]byte("k")))
	_, err = s.Get([]byte("k"))
	assert.True(t, s.IsNotFound(err))
}

func TestMemStoreIterate(t *testing.T) {
	s := kv.NewMemStore()
	defer s.Close()

	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Put([]byte(k), []byte(k)))
	}

	it := s.Iterate(kv.Range{})
	var got []string
	for it.Next() {
		got = append(got, string(it.Item().Key))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"a", "b", "c"}, got)
}
