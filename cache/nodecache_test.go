package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/globalstate/engine/cache"
	"github.com/globalstate/engine/digest"
)

func TestNodeCacheGetAddAndStats(t *testing.T) {
	nc := cache.NewNodeCache(10)

	d := digest.Sum([]byte("a trie node"))

	_, ok := nc.Get(d)
	assert.False(t, ok)

	nc.Add(d, []byte("a trie node"))
	v, ok := nc.Get(d)
	assert.True(t, ok)
	assert.Equal(t, []byte("a trie node"), v)

	hits, misses := nc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestNodeCacheEnforcesMinimumSize(t *testing.T) {
	nc := cache.NewNodeCache(1)
	for i := 0; i < 32; i++ {
		d := digest.Sum([]byte{byte(i)})
		nc.Add(d, []byte{byte(i)})
	}
	// maxSize is clamped to 16, so at least one early entry must have
	// been evicted by the time 32 distinct digests have been added.
	first := digest.Sum([]byte{0})
	_, ok := nc.Get(first)
	assert.False(t, ok)
}
