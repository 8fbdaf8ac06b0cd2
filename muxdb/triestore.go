package muxdb

import (
	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/kv"
	"github.com/globalstate/engine/metrics"
)

var errContentAddressMismatch = errors.New("muxdb: value does not hash to its storage key")

var (
	metricNodeCacheHit  = metrics.Counter("muxdb_trie_node_cache_hit")
	metricNodeCacheMiss = metrics.Counter("muxdb_trie_node_cache_miss")
	metricNodeReads     = metrics.Counter("muxdb_trie_node_reads")
	metricNodeWrites    = metrics.Counter("muxdb_trie_node_writes")
)

// TrieStore is the content-addressed digest → serialised-node store.
// Put asserts content-addressing: the key must equal the digest of the
// value being stored. A serialised-node cache sits in front of reads,
// shared across transactions via the owning Environment; tx is the
// transaction this particular TrieStore is scoped to, used to stage
// writes until they are known to have committed (see Tx.stageNode).
type TrieStore struct {
	store kv.Store
	env   *Environment
	tx    *Tx
}

// Get returns the raw serialised node bytes stored under d, or
// kv.ErrNotFound. A node written earlier in this same transaction is
// returned from that transaction's pending overlay rather than the
// shared cache, since the shared cache is only populated once a
// transaction durably commits.
func (s *TrieStore) Get(d digest.Hash) ([]byte, error) {
	metricNodeReads.Add(1)
	if s.tx != nil {
		if v, ok := s.tx.pendingNode(d); ok {
			return v, nil
		}
	}
	if v, ok := s.env.nodes.Get(d); ok {
		metricNodeCacheHit.Add(1)
		return v, nil
	}
	metricNodeCacheMiss.Add(1)

	v, err := s.store.Get(d.Bytes())
	if err != nil {
		return nil, err
	}
	s.env.nodes.Add(d, v)
	return v, nil
}

// Has reports whether d is present, without paying for a cache
// population or value copy beyond what Get already does.
func (s *TrieStore) Has(d digest.Hash) (bool, error) {
	_, err := s.Get(d)
	if err == nil {
		return true, nil
	}
	if s.store.IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// Put stores value under d, asserting d == digest.Sum(value). It is a
// no-op (besides the assertion) if d is already present, since the
// trie's persistence model never mutates an existing node. The write
// is staged on this store's transaction rather than cached
// immediately: promoting it to the shared, Environment-wide cache
// before the surrounding transaction commits would let a later abort
// (e.g. a TransformFailure on a subsequent key within the same
// state.Commit) leave the cache claiming a node is durably present
// when the transaction that wrote it was rolled back.
func (s *TrieStore) Put(d digest.Hash, value []byte) error {
	if digest.Sum(value) != d {
		return errContentAddressMismatch
	}
	if ok, err := s.Has(d); err != nil {
		return err
	} else if ok {
		return nil
	}
	if err := s.store.Put(d.Bytes(), value); err != nil {
		return err
	}
	metricNodeWrites.Add(1)
	if s.tx != nil {
		s.tx.stageNode(d, value)
	}
	return nil
}

// IsNotFound reports whether err denotes an absent key.
func (s *TrieStore) IsNotFound(err error) bool { return s.store.IsNotFound(err) }
