package trie

import (
	"bytes"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// ProofStep records one ancestor along the path from a leaf to the
// root: either an Extension's affix, or a Branch's pointer block with
// the traversed slot blanked out. Verification reinstates the child
// digest at the recorded slot before rehashing.
type ProofStep struct {
	IsExtension bool
	Affix       []byte
	Children    [256]Pointer
	Slot        byte
}

// MerkleProof is a leaf plus the ordered ancestor fragments needed to
// reconstruct the root digest. Steps[0] is the leaf's immediate parent;
// the last step's digest is the root.
type MerkleProof struct {
	LeafKey   gs.Key
	LeafValue gs.StoredValue
	Steps     []ProofStep
}

// ReadWithProof is Read plus a MerkleProof of inclusion for the found
// value.
func ReadWithProof(store Store, root digest.Hash, key gs.Key) (*MerkleProof, bool, error) {
	if root == EmptyRoot() {
		return nil, false, nil
	}
	node, err := loadNode(store, root)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, false, gs.ErrRootNotFound
		}
		return nil, false, err
	}
	addr := gs.Address(key).Bytes()
	var steps []ProofStep
	leaf, found, err := readWithProofAt(store, node, addr, 0, &steps)
	if err != nil || !found {
		return nil, false, err
	}
	return &MerkleProof{LeafKey: leaf.LeafKey, LeafValue: leaf.LeafValue, Steps: steps}, true, nil
}

// readWithProofAt appends ancestor steps in post-order, which yields
// leaf-to-root order since the deepest recursive call returns first.
func readWithProofAt(store Store, node *Node, addr []byte, depth int, steps *[]ProofStep) (*Node, bool, error) {
	switch {
	case node.IsLeaf():
		leafAddr := gs.Address(node.LeafKey).Bytes()
		if bytes.Equal(leafAddr, addr) {
			return node, true, nil
		}
		return nil, false, nil

	case node.IsExtension():
		if !bytes.Equal(node.Affix, addr[depth:depth+len(node.Affix)]) {
			return nil, false, nil
		}
		child, err := loadNode(store, node.ExtensionChild.Digest)
		if err != nil {
			return nil, false, err
		}
		leaf, found, err := readWithProofAt(store, child, addr, depth+len(node.Affix), steps)
		if err != nil || !found {
			return nil, false, err
		}
		*steps = append(*steps, ProofStep{IsExtension: true, Affix: append([]byte{}, node.Affix...)})
		return leaf, true, nil

	default: // branch
		slot := addr[depth]
		ptr := node.Children[slot]
		if ptr.IsEmpty() {
			return nil, false, nil
		}
		child, err := loadNode(store, ptr.Digest)
		if err != nil {
			return nil, false, err
		}
		leaf, found, err := readWithProofAt(store, child, addr, depth+1, steps)
		if err != nil || !found {
			return nil, false, err
		}
		step := ProofStep{IsExtension: false, Children: node.Children, Slot: slot}
		step.Children[slot] = Pointer{Kind: Empty}
		*steps = append(*steps, step)
		return leaf, true, nil
	}
}

// Verify reconstructs a root digest from proof and reports whether it
// matches root, proof.LeafKey matches key, and proof.LeafValue matches
// value.
func Verify(proof *MerkleProof, key gs.Key, value gs.StoredValue, root digest.Hash) bool {
	if proof == nil || proof.LeafKey == nil {
		return false
	}
	if !bytes.Equal(proof.LeafKey.Bytes(), key.Bytes()) {
		return false
	}
	if !proof.LeafValue.Equal(value) {
		return false
	}

	cur := NewLeaf(proof.LeafKey, proof.LeafValue).Digest()
	for i, step := range proof.Steps {
		kind := LeafPointer
		if i > 0 {
			kind = NodePointer
		}
		var node *Node
		if step.IsExtension {
			node = NewExtension(step.Affix, Pointer{Kind: kind, Digest: cur})
		} else {
			n := NewBranch()
			n.Children = step.Children
			n.Children[step.Slot] = Pointer{Kind: kind, Digest: cur}
			node = n
		}
		cur = node.Digest()
	}
	return cur == root
}
