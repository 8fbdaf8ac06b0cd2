package trie

import "github.com/globalstate/engine/digest"

// PutTrie inserts a single raw node into store, content-addressed by
// its own digest, if not already present. No structural validation is
// performed beyond deserialisability; this is the primitive used by
// partial-fetch replication and repair.
func PutTrie(store Store, raw []byte) error {
	node, err := DecodeNode(raw)
	if err != nil {
		return err
	}
	d := digest.Sum(raw)
	has, err := hasNode(store, d)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	return store.Put(d, node.Bytes())
}

func hasNode(store Store, d digest.Hash) (bool, error) {
	_, err := store.Get(d)
	if err == nil {
		return true, nil
	}
	if store.IsNotFound(err) {
		return false, nil
	}
	return false, err
}
