// Package state implements the commit engine and the state-provider
// façade sitting on top of the trie and muxdb packages: applying an
// ordered bag of key-level transforms against a prestate root to
// produce a poststate root, and exposing the checkout/read surface
// consumed by the execution engine, RPC layer, and sync tooling.
package state

import (
	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/muxdb"
	"github.com/globalstate/engine/trie"
)

// ExecutionEffect echoes back the folded effects a successful Commit
// applied, in the deterministic order they were processed.
type ExecutionEffect struct {
	Applied []gs.Entry
}

// CommitResult is the outcome of a successful Commit.
type CommitResult struct {
	StateRoot       digest.Hash
	ExecutionEffect ExecutionEffect
}

// Commit applies effects against prestateRoot inside a single read-write
// transaction, threading the evolving root key by key. Effects are
// iterated in SortedEntries order so that two callers presenting the
// same prestate root and the same effects multiset in different
// recording orders produce the same state root (spec scenario:
// "commit determinism"). The correlation id is accepted purely for
// tracing and is never consulted.
//
// On success the transaction commits and the new root is returned. On
// any TransformFailure or store error the transaction aborts, leaving
// no partial subtree visible.
func Commit(env *muxdb.Environment, cid gs.CorrelationID, prestateRoot digest.Hash, effects *gs.AdditiveMap) (CommitResult, error) {
	entries := effects.SortedEntries()

	var result CommitResult
	err := env.Update(func(tx *muxdb.Tx) error {
		store := tx.TrieStore()

		if prestateRoot != trie.EmptyRoot() {
			if _, err := store.Get(prestateRoot); err != nil {
				if store.IsNotFound(err) {
					return gs.ErrRootNotFound
				}
				return err
			}
		}

		root := prestateRoot
		for _, entry := range entries {
			existing, found, err := trie.Read(store, root, entry.Key)
			if err != nil {
				return err
			}
			newVal, err := gs.Apply(existing, !found, entry.Transform)
			if err != nil {
				if tf, ok := err.(*gs.TransformFailure); ok {
					tf.Key = entry.Key
					return tf
				}
				return err
			}
			newRoot, _, err := trie.Write(store, root, entry.Key, newVal)
			if err != nil {
				return err
			}
			root = newRoot
		}

		result = CommitResult{StateRoot: root, ExecutionEffect: ExecutionEffect{Applied: entries}}
		return nil
	})
	if err != nil {
		return CommitResult{}, err
	}
	return result, nil
}
