package trie

import (
	"bytes"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// Write inserts or overwrites key → value under root, returning the new
// root digest. alreadyExists reports whether key was already present
// with an identical value, in which case root is returned unchanged and
// no new nodes are allocated. Write returns gs.ErrRootNotFound if root
// is neither EmptyRoot() nor resolvable in store.
func Write(store Store, root digest.Hash, key gs.Key, value gs.StoredValue) (newRoot digest.Hash, alreadyExists bool, err error) {
	addr := gs.Address(key).Bytes()

	existing := Pointer{Kind: Empty}
	if root != EmptyRoot() {
		if _, err := store.Get(root); err != nil {
			if store.IsNotFound(err) {
				return digest.Hash{}, false, gs.ErrRootNotFound
			}
			return digest.Hash{}, false, err
		}
		existing = Pointer{Kind: NodePointer, Digest: root}
	}

	newPtr, unchanged, err := writeAt(store, existing, addr, 0, key, value)
	if err != nil {
		return digest.Hash{}, false, err
	}
	if unchanged {
		return root, true, nil
	}
	return newPtr.Digest, false, nil
}

func writeAt(store Store, existing Pointer, addr []byte, depth int, key gs.Key, value gs.StoredValue) (Pointer, bool, error) {
	if existing.IsEmpty() {
		ptr, err := wrapLeafAtDepth(store, key, value, addr[depth:])
		if err != nil {
			return Pointer{}, false, err
		}
		return ptr, false, nil
	}

	node, err := loadNode(store, existing.Digest)
	if err != nil {
		return Pointer{}, false, err
	}

	switch {
	case node.IsLeaf():
		existingAddr := gs.Address(node.LeafKey).Bytes()
		if bytes.Equal(existingAddr, addr) {
			if node.LeafValue.Equal(value) {
				return existing, true, nil
			}
			d, err := storeNode(store, NewLeaf(key, value))
			if err != nil {
				return Pointer{}, false, err
			}
			return Pointer{Kind: LeafPointer, Digest: d}, false, nil
		}
		return splitLeaf(store, node, existingAddr, addr, depth, key, value)

	case node.IsExtension():
		shared := commonPrefixLen(node.Affix, addr[depth:])
		if shared == len(node.Affix) {
			childPtr, unchanged, err := writeAt(store, node.ExtensionChild, addr, depth+len(node.Affix), key, value)
			if err != nil {
				return Pointer{}, false, err
			}
			if unchanged {
				return existing, true, nil
			}
			d, err := storeNode(store, NewExtension(node.Affix, childPtr))
			if err != nil {
				return Pointer{}, false, err
			}
			return Pointer{Kind: NodePointer, Digest: d}, false, nil
		}
		return splitExtension(store, node, addr, depth, shared, key, value)

	default: // branch
		slot := addr[depth]
		childPtr, unchanged, err := writeAt(store, node.Children[slot], addr, depth+1, key, value)
		if err != nil {
			return Pointer{}, false, err
		}
		if unchanged {
			return existing, true, nil
		}
		newBranch := cloneBranch(node)
		newBranch.Children[slot] = childPtr
		d, err := storeNode(store, newBranch)
		if err != nil {
			return Pointer{}, false, err
		}
		return Pointer{Kind: NodePointer, Digest: d}, false, nil
	}
}

// splitLeaf handles insertion when the new key's address diverges from
// an existing leaf's address at or after depth. It builds a branch at
// the divergence point holding the old leaf on one side and the new
// leaf on the other, wrapped in a shared-prefix extension if the
// divergence isn't immediate.
func splitLeaf(store Store, oldLeaf *Node, existingAddr, addr []byte, depth int, key gs.Key, value gs.StoredValue) (Pointer, bool, error) {
	divergeAt := firstDiffIndex(existingAddr, addr, depth)

	newSidePtr, err := wrapLeafAtDepth(store, key, value, addr[divergeAt+1:])
	if err != nil {
		return Pointer{}, false, err
	}
	oldSidePtr, err := wrapLeafAtDepth(store, oldLeaf.LeafKey, oldLeaf.LeafValue, existingAddr[divergeAt+1:])
	if err != nil {
		return Pointer{}, false, err
	}

	branch := NewBranch()
	branch.Children[existingAddr[divergeAt]] = oldSidePtr
	branch.Children[addr[divergeAt]] = newSidePtr
	branchDigest, err := storeNode(store, branch)
	if err != nil {
		return Pointer{}, false, err
	}
	branchPtr := Pointer{Kind: NodePointer, Digest: branchDigest}

	if divergeAt > depth {
		extDigest, err := storeNode(store, NewExtension(addr[depth:divergeAt], branchPtr))
		if err != nil {
			return Pointer{}, false, err
		}
		return Pointer{Kind: NodePointer, Digest: extDigest}, false, nil
	}
	return branchPtr, false, nil
}

// splitExtension handles insertion when the new key's address diverges
// from an existing Extension's affix partway through, instead of
// matching it fully.
func splitExtension(store Store, oldExt *Node, addr []byte, depth, sharedWithinAffix int, key gs.Key, value gs.StoredValue) (Pointer, bool, error) {
	divergeAt := depth + sharedWithinAffix

	oldTailAffix := oldExt.Affix[sharedWithinAffix+1:]
	var oldSidePtr Pointer
	if len(oldTailAffix) == 0 {
		oldSidePtr = oldExt.ExtensionChild
	} else {
		d, err := storeNode(store, NewExtension(oldTailAffix, oldExt.ExtensionChild))
		if err != nil {
			return Pointer{}, false, err
		}
		oldSidePtr = Pointer{Kind: NodePointer, Digest: d}
	}
	oldSlot := oldExt.Affix[sharedWithinAffix]

	newSidePtr, err := wrapLeafAtDepth(store, key, value, addr[divergeAt+1:])
	if err != nil {
		return Pointer{}, false, err
	}
	newSlot := addr[divergeAt]

	branch := NewBranch()
	branch.Children[oldSlot] = oldSidePtr
	branch.Children[newSlot] = newSidePtr
	branchDigest, err := storeNode(store, branch)
	if err != nil {
		return Pointer{}, false, err
	}
	branchPtr := Pointer{Kind: NodePointer, Digest: branchDigest}

	if sharedWithinAffix > 0 {
		extDigest, err := storeNode(store, NewExtension(oldExt.Affix[:sharedWithinAffix], branchPtr))
		if err != nil {
			return Pointer{}, false, err
		}
		return Pointer{Kind: NodePointer, Digest: extDigest}, false, nil
	}
	return branchPtr, false, nil
}

func cloneBranch(n *Node) *Node {
	clone := NewBranch()
	clone.Children = n.Children
	return clone
}
