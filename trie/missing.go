package trie

import "github.com/globalstate/engine/digest"

// MissingDescendantTrieKeys returns every digest transitively referenced
// from root that has no entry in store, in BFS discovery order with
// duplicates suppressed. If root itself is absent, the result is
// [root]. An entry whose bytes rehash to something other than its
// storage key is not the node its parent referenced, so it is reported
// as missing too and its contents are not traversed.
func MissingDescendantTrieKeys(store Store, root digest.Hash) ([]digest.Hash, error) {
	if root == EmptyRoot() {
		return nil, nil
	}
	raw, err := store.Get(root)
	if err != nil {
		if store.IsNotFound(err) {
			return []digest.Hash{root}, nil
		}
		return nil, err
	}
	if digest.Sum(raw) != root {
		return []digest.Hash{root}, nil
	}
	node, err := DecodeNode(raw)
	if err != nil {
		return nil, err
	}

	seen := map[digest.Hash]bool{}
	var missing []digest.Hash
	queue := childDigests(node)
	for len(queue) > 0 {
		d := queue[0]
		queue = queue[1:]
		if seen[d] {
			continue
		}
		seen[d] = true

		raw, err := store.Get(d)
		if err != nil {
			if store.IsNotFound(err) {
				missing = append(missing, d)
				continue
			}
			return nil, err
		}
		if digest.Sum(raw) != d {
			missing = append(missing, d)
			continue
		}
		n, err := DecodeNode(raw)
		if err != nil {
			return nil, err
		}
		queue = append(queue, childDigests(n)...)
	}
	return missing, nil
}

func childDigests(n *Node) []digest.Hash {
	switch {
	case n.IsLeaf():
		return nil
	case n.IsExtension():
		if n.ExtensionChild.IsEmpty() {
			return nil
		}
		return []digest.Hash{n.ExtensionChild.Digest}
	default: // branch
		var ds []digest.Hash
		for _, c := range n.Children {
			if !c.IsEmpty() {
				ds = append(ds, c.Digest)
			}
		}
		return ds
	}
}
