package state

import (
	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/muxdb"
	"github.com/globalstate/engine/trie"
)

// GlobalState is the client-facing façade over an Environment: checkout,
// commit, protocol-data access, and the raw trie-replication primitives
// (put_trie, missing_descendant_trie_keys). Many Readers may coexist
// with at most one writer, mirroring the Environment's own MVCC
// discipline.
type GlobalState struct {
	env *muxdb.Environment
}

// NewGlobalState wraps env in a GlobalState façade, persisting the
// canonical empty-root branch node if it is not already present. This
// mirrors the original storage engine's bootstrap sequence (create the
// empty-root node, put it, commit, then hand back the façade with that
// root as the fresh-state starting point) so the empty root is a real,
// resolvable trie entry rather than a pure in-memory sentinel.
func NewGlobalState(env *muxdb.Environment) (*GlobalState, error) {
	empty := trie.NewBranch()
	err := env.Update(func(tx *muxdb.Tx) error {
		store := tx.TrieStore()
		has, err := store.Has(trie.EmptyRoot())
		if err != nil {
			return err
		}
		if has {
			return nil
		}
		return store.Put(trie.EmptyRoot(), empty.Bytes())
	})
	if err != nil {
		return nil, err
	}
	return &GlobalState{env: env}, nil
}

// EmptyRoot returns the digest of the canonical empty trie, the initial
// root of a fresh state.
func EmptyRoot() digest.Hash { return trie.EmptyRoot() }

// Checkout acquires a Reader pinned to root. It returns (nil, false) if
// root does not resolve to a trie node, mirroring the client façade's
// checkout(Digest) → Option<Reader>.
func (g *GlobalState) Checkout(root digest.Hash) (*Reader, bool) {
	if root == trie.EmptyRoot() {
		return &Reader{gs: g, root: root}, true
	}
	exists := false
	err := g.env.View(func(tx *muxdb.Tx) error {
		store := tx.TrieStore()
		ok, err := store.Has(root)
		if err != nil {
			return err
		}
		exists = ok
		return nil
	})
	if err != nil || !exists {
		return nil, false
	}
	return &Reader{gs: g, root: root}, true
}

// Commit applies effects against prestateRoot and returns the resulting
// CommitResult.
func (g *GlobalState) Commit(cid gs.CorrelationID, prestateRoot digest.Hash, effects *gs.AdditiveMap) (CommitResult, error) {
	return Commit(g.env, cid, prestateRoot, effects)
}

// PutProtocolData stores d for protocol version v, overwriting any
// prior entry for the same version.
func (g *GlobalState) PutProtocolData(v gs.ProtocolVersion, d gs.ProtocolData) error {
	return g.env.Update(func(tx *muxdb.Tx) error {
		return tx.ProtocolDataStore().Put(v, d)
	})
}

// GetProtocolData returns the protocol data stored for v, if any.
func (g *GlobalState) GetProtocolData(v gs.ProtocolVersion) (gs.ProtocolData, bool, error) {
	var (
		data  gs.ProtocolData
		found bool
	)
	err := g.env.View(func(tx *muxdb.Tx) error {
		store := tx.ProtocolDataStore()
		d, err := store.Get(v)
		if err != nil {
			if store.IsNotFound(err) {
				return nil
			}
			return err
		}
		data, found = d, true
		return nil
	})
	return data, found, err
}

// PutTrie inserts a single raw trie node, content-addressed by its own
// digest, used by partial-fetch replication and repair.
func (g *GlobalState) PutTrie(raw []byte) error {
	return g.env.Update(func(tx *muxdb.Tx) error {
		return trie.PutTrie(tx.TrieStore(), raw)
	})
}

// MissingDescendantTrieKeys returns every digest transitively referenced
// from root that has no entry in the store, driving a synchroniser's
// breadth-first fetch.
func (g *GlobalState) MissingDescendantTrieKeys(root digest.Hash) ([]digest.Hash, error) {
	var out []digest.Hash
	err := g.env.View(func(tx *muxdb.Tx) error {
		var err error
		out, err = trie.MissingDescendantTrieKeys(tx.TrieStore(), root)
		return err
	})
	return out, err
}

// ReadTrie returns the raw serialised node stored under d, for
// replication tooling that needs the bytes without decoding them.
func (g *GlobalState) ReadTrie(d digest.Hash) ([]byte, bool, error) {
	var (
		raw   []byte
		found bool
	)
	err := g.env.View(func(tx *muxdb.Tx) error {
		store := tx.TrieStore()
		v, err := store.Get(d)
		if err != nil {
			if store.IsNotFound(err) {
				return nil
			}
			return err
		}
		raw, found = v, true
		return nil
	})
	return raw, found, err
}
