package trie

import (
	"bytes"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// Read looks up key under root. found is false when root resolves but
// key is absent. Read returns gs.ErrRootNotFound when root is neither
// EmptyRoot() nor resolvable in store.
func Read(store Store, root digest.Hash, key gs.Key) (value gs.StoredValue, found bool, err error) {
	if root == EmptyRoot() {
		return gs.StoredValue{}, false, nil
	}
	node, err := loadNode(store, root)
	if err != nil {
		if store.IsNotFound(err) {
			return gs.StoredValue{}, false, gs.ErrRootNotFound
		}
		return gs.StoredValue{}, false, err
	}
	addr := gs.Address(key).Bytes()
	return readAt(store, node, addr, 0)
}

func readAt(store Store, node *Node, addr []byte, depth int) (gs.StoredValue, bool, error) {
	switch {
	case node.IsLeaf():
		leafAddr := gs.Address(node.LeafKey).Bytes()
		if bytes.Equal(leafAddr, addr) {
			return node.LeafValue, true, nil
		}
		return gs.StoredValue{}, false, nil

	case node.IsExtension():
		if !bytes.Equal(node.Affix, addr[depth:depth+len(node.Affix)]) {
			return gs.StoredValue{}, false, nil
		}
		child, err := loadNode(store, node.ExtensionChild.Digest)
		if err != nil {
			return gs.StoredValue{}, false, err
		}
		return readAt(store, child, addr, depth+len(node.Affix))

	default: // branch
		ptr := node.Children[addr[depth]]
		if ptr.IsEmpty() {
			return gs.StoredValue{}, false, nil
		}
		child, err := loadNode(store, ptr.Digest)
		if err != nil {
			return gs.StoredValue{}, false, err
		}
		return readAt(store, child, addr, depth+1)
	}
}
