// Package trie implements the content-addressed, persistent
// Merkle-Patricia trie: a 256-wide branch per address byte (not a
// 4-bit hex nibble), leaves carrying fully decoded keys and values,
// and extension nodes compressing single-child chains. Every
// operation is a pure function over an explicit Store handle — no
// package-level mutable state.
package trie

import (
	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// Store is the minimal contract trie operations need from a backing
// key-value layer: a content-addressed digest → serialised-node map.
// muxdb.TrieStore satisfies this interface structurally.
type Store interface {
	Get(d digest.Hash) ([]byte, error)
	Put(d digest.Hash, value []byte) error
	IsNotFound(err error) bool
}

// PointerKind tags what a Pointer addresses.
type PointerKind byte

const (
	// Empty denotes an absent child.
	Empty PointerKind = iota
	// LeafPointer addresses a Leaf node.
	LeafPointer
	// NodePointer addresses an Extension or Branch node.
	NodePointer
)

// Pointer is a tagged reference to a child node by digest.
type Pointer struct {
	Kind   PointerKind
	Digest digest.Hash
}

// IsEmpty reports whether p addresses nothing.
func (p Pointer) IsEmpty() bool { return p.Kind == Empty }

// nodeKind tags the three node shapes in their serialised form.
type nodeKind byte

const (
	kindLeaf nodeKind = iota + 1
	kindExtension
	kindBranch
)

// Node is the tagged union of the trie's three node shapes. Exactly one
// of the typed fields is meaningful, selected by Kind.
type Node struct {
	kind nodeKind

	// Leaf fields.
	LeafKey   gs.Key
	LeafValue gs.StoredValue

	// Extension fields.
	Affix          []byte
	ExtensionChild Pointer

	// Branch fields.
	Children [256]Pointer
}

// NewLeaf constructs a Leaf node.
func NewLeaf(key gs.Key, value gs.StoredValue) *Node {
	return &Node{kind: kindLeaf, LeafKey: key, LeafValue: value}
}

// NewExtension constructs an Extension node. affix must be non-empty.
func NewExtension(affix []byte, child Pointer) *Node {
	return &Node{kind: kindExtension, Affix: append([]byte{}, affix...), ExtensionChild: child}
}

// NewBranch constructs an all-empty Branch node.
func NewBranch() *Node {
	return &Node{kind: kindBranch}
}

// IsLeaf reports whether n is a Leaf node.
func (n *Node) IsLeaf() bool { return n.kind == kindLeaf }

// IsExtension reports whether n is an Extension node.
func (n *Node) IsExtension() bool { return n.kind == kindExtension }

// IsBranch reports whether n is a Branch node.
func (n *Node) IsBranch() bool { return n.kind == kindBranch }

// ChildCount returns the number of non-empty children of a Branch node.
func (n *Node) ChildCount() int {
	count := 0
	for _, c := range n.Children {
		if !c.IsEmpty() {
			count++
		}
	}
	return count
}

// Digest returns digest(canonical_serialise(n)), the node's identity and
// storage key.
func (n *Node) Digest() digest.Hash {
	return digest.Sum(n.Bytes())
}

// emptyBranchDigest is the canonical empty-root digest: the digest of an
// all-empty Branch node.
var emptyBranchDigest = NewBranch().Digest()

// EmptyRoot returns the digest of the canonical empty trie.
func EmptyRoot() digest.Hash { return emptyBranchDigest }

var (
	errMalformedNode     = errors.New("trie: malformed node encoding")
	errUnknownNodeKind   = errors.New("trie: unknown node kind")
	errUnknownPointerKind = errors.New("trie: unknown pointer kind")
)
