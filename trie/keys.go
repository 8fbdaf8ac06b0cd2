package trie

import (
	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// KeyIterator is a lazy, restartable depth-first traversal over every
// leaf reachable from a root, yielding decoded keys in the
// lexicographic order of their 32-byte addresses (branch slot 0 before
// slot 1, ...). It is fallible mid-stream: Next returns false once
// exhausted or once an I/O error has occurred, distinguishable via Err.
type KeyIterator struct {
	store Store
	stack []iterFrame
	cur   gs.Key
	err   error
	done  bool
}

type iterFrame struct {
	node *Node
	next int // for branch frames, the next child slot to descend into
}

// Keys returns a KeyIterator over every leaf reachable from root. A
// root of EmptyRoot() yields an iterator with no keys; a root absent
// from store yields one whose Err is gs.ErrRootNotFound.
func Keys(store Store, root digest.Hash) *KeyIterator {
	it := &KeyIterator{store: store}
	if root == EmptyRoot() {
		it.done = true
		return it
	}
	node, err := loadNode(store, root)
	if err != nil {
		if store.IsNotFound(err) {
			err = gs.ErrRootNotFound
		}
		it.err = err
		it.done = true
		return it
	}
	it.stack = []iterFrame{{node: node}}
	return it
}

// Next advances the iterator. It returns false when exhausted or on
// error; callers must check Err after a false return to distinguish
// the two.
func (it *KeyIterator) Next() bool {
	if it.done {
		return false
	}
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		switch {
		case top.node.IsLeaf():
			it.cur = top.node.LeafKey
			it.stack = it.stack[:len(it.stack)-1]
			return true

		case top.node.IsExtension():
			child := top.node.ExtensionChild
			it.stack = it.stack[:len(it.stack)-1]
			childNode, err := loadNode(it.store, child.Digest)
			if err != nil {
				it.err = err
				it.done = true
				return false
			}
			it.stack = append(it.stack, iterFrame{node: childNode})

		default: // branch
			advanced := false
			for top.next < 256 {
				slot := top.next
				top.next++
				ptr := top.node.Children[slot]
				if ptr.IsEmpty() {
					continue
				}
				childNode, err := loadNode(it.store, ptr.Digest)
				if err != nil {
					it.err = err
					it.done = true
					return false
				}
				it.stack = append(it.stack, iterFrame{node: childNode})
				advanced = true
				break
			}
			if !advanced {
				it.stack = it.stack[:len(it.stack)-1]
			}
		}
	}
	it.done = true
	return false
}

// Key returns the key produced by the most recent call to Next.
func (it *KeyIterator) Key() gs.Key { return it.cur }

// Err returns the first error encountered during iteration, if any.
func (it *KeyIterator) Err() error { return it.err }
