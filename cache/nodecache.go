// Package cache provides the serialised-trie-node cache shared across
// transactions by a muxdb.Environment.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"

	"github.com/globalstate/engine/digest"
)

// NodeCache is a digest-keyed LRU cache of serialised trie node bytes.
// It is safe for concurrent use and tracks its own cumulative hit/miss
// counts so a caller can report cache effectiveness without keeping a
// separate accounting type alongside it.
type NodeCache struct {
	cache        *lru.Cache
	hits, misses atomic.Int64
}

// NewNodeCache creates a NodeCache holding at most maxSize nodes,
// evicting least-recently-used entries past that bound.
func NewNodeCache(maxSize int) *NodeCache {
	if maxSize < 16 {
		maxSize = 16
	}
	c, _ := lru.New(maxSize)
	return &NodeCache{cache: c}
}

// Get returns the cached bytes for d, recording a hit or miss.
func (n *NodeCache) Get(d digest.Hash) ([]byte, bool) {
	v, ok := n.cache.Get(d)
	if !ok {
		n.misses.Add(1)
		return nil, false
	}
	n.hits.Add(1)
	return v.([]byte), true
}

// Add inserts or refreshes d's cached bytes.
func (n *NodeCache) Add(d digest.Hash, value []byte) {
	n.cache.Add(d, value)
}

// Stats returns the cumulative hit and miss counts since creation.
func (n *NodeCache) Stats() (hits, misses int64) {
	return n.hits.Load(), n.misses.Load()
}
