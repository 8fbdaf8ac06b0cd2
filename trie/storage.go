package trie

import (
	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

func loadNode(store Store, d digest.Hash) (*Node, error) {
	raw, err := store.Get(d)
	if err != nil {
		return nil, err
	}
	return DecodeNode(raw)
}

// storeNode persists n's canonical encoding, content-addressed by its
// own digest. Re-storing an already-present node is a safe no-op since
// the store is persistent (nodes are never mutated in place).
func storeNode(store Store, n *Node) (digest.Hash, error) {
	b := n.Bytes()
	d := digest.Sum(b)
	if err := store.Put(d, b); err != nil {
		return digest.Hash{}, err
	}
	return d, nil
}

func commonPrefixLen(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// firstDiffIndex returns the first index at or after from where a and b
// differ. Callers only invoke this when a and b are known to diverge
// somewhere at or after from.
func firstDiffIndex(a, b []byte, from int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := from; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// wrapLeafAtDepth stores a fresh Leaf(key, value) and wraps it, if
// remaining is non-empty, in an Extension carrying the rest of the
// address path not otherwise consumed by ancestor branches/extensions.
// This is the canonical "full-affix extension above a lone leaf" form
// for newly created leaves.
func wrapLeafAtDepth(store Store, key gs.Key, value gs.StoredValue, remaining []byte) (Pointer, error) {
	leaf := NewLeaf(key, value)
	d, err := storeNode(store, leaf)
	if err != nil {
		return Pointer{}, err
	}
	if len(remaining) == 0 {
		return Pointer{Kind: LeafPointer, Digest: d}, nil
	}
	ext := NewExtension(remaining, Pointer{Kind: LeafPointer, Digest: d})
	extDigest, err := storeNode(store, ext)
	if err != nil {
		return Pointer{}, err
	}
	return Pointer{Kind: NodePointer, Digest: extDigest}, nil
}
