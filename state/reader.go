package state

import (
	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/muxdb"
	"github.com/globalstate/engine/trie"
)

// Reader is a view bound to a fixed root digest, acquired via
// GlobalState.Checkout. Many Readers may coexist with at most one
// writer. A Reader observing RootNotFound for its own bound root is a
// store-corruption invariant violation — spec.md §5 explicitly allows
// the implementation to abort the process in that case, since it means
// the root was deleted or corrupted out from under an existing
// checkout.
type Reader struct {
	gs   *GlobalState
	root digest.Hash
}

// Root returns the digest this Reader is checked out against.
func (r *Reader) Root() digest.Hash { return r.root }

// Read looks up key under this Reader's root. found is false when key
// is absent. cid is accepted purely for tracing.
func (r *Reader) Read(cid gs.CorrelationID, key gs.Key) (gs.StoredValue, bool, error) {
	var (
		value gs.StoredValue
		found bool
	)
	err := r.gs.env.View(func(tx *muxdb.Tx) error {
		v, ok, err := trie.Read(tx.TrieStore(), r.root, key)
		if err != nil {
			if errors.Is(err, gs.ErrRootNotFound) {
				panic("state: RootNotFound reached through a live Reader: store corruption")
			}
			return err
		}
		value, found = v, ok
		return nil
	})
	return value, found, err
}

// ReadWithProof is Read plus a MerkleProof of inclusion for the found
// value.
func (r *Reader) ReadWithProof(cid gs.CorrelationID, key gs.Key) (*trie.MerkleProof, bool, error) {
	var (
		proof *trie.MerkleProof
		found bool
	)
	err := r.gs.env.View(func(tx *muxdb.Tx) error {
		p, ok, err := trie.ReadWithProof(tx.TrieStore(), r.root, key)
		if err != nil {
			if errors.Is(err, gs.ErrRootNotFound) {
				panic("state: RootNotFound reached through a live Reader: store corruption")
			}
			return err
		}
		proof, found = p, ok
		return nil
	})
	return proof, found, err
}

// ReadTrie returns the raw serialised node stored under d. It is not
// restricted to nodes reachable from this Reader's root; the root
// binding only governs Read/ReadWithProof's traversal start point.
func (r *Reader) ReadTrie(cid gs.CorrelationID, d digest.Hash) ([]byte, bool, error) {
	return r.gs.ReadTrie(d)
}
