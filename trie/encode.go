package trie

import (
	"encoding/binary"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
)

// Bytes returns the canonical binary encoding of n. The scheme is
// bytewise stable across implementations: a one-byte node-kind tag
// followed by a kind-specific, length-unambiguous payload.
func (n *Node) Bytes() []byte {
	switch n.kind {
	case kindLeaf:
		keyBytes := n.LeafKey.Bytes()
		valBytes := n.LeafValue.Bytes()
		b := make([]byte, 1, 1+4+len(keyBytes)+len(valBytes))
		b[0] = byte(kindLeaf)
		b = appendUint32Prefixed(b, keyBytes)
		b = append(b, valBytes...)
		return b
	case kindExtension:
		b := make([]byte, 1, 1+4+len(n.Affix)+pointerSize(n.ExtensionChild))
		b[0] = byte(kindExtension)
		b = appendUint32Prefixed(b, n.Affix)
		b = appendPointer(b, n.ExtensionChild)
		return b
	case kindBranch:
		b := make([]byte, 1, 1+256*33)
		b[0] = byte(kindBranch)
		for _, c := range n.Children {
			b = appendPointer(b, c)
		}
		return b
	default:
		return []byte{byte(n.kind)}
	}
}

func appendUint32Prefixed(b, payload []byte) []byte {
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(payload)))
	b = append(b, lenBuf...)
	return append(b, payload...)
}

func pointerSize(p Pointer) int {
	if p.IsEmpty() {
		return 1
	}
	return 1 + digest.Size
}

func appendPointer(b []byte, p Pointer) []byte {
	b = append(b, byte(p.Kind))
	if !p.IsEmpty() {
		b = append(b, p.Digest[:]...)
	}
	return b
}

// DecodeNode is the inverse of Node.Bytes.
func DecodeNode(b []byte) (*Node, error) {
	if len(b) == 0 {
		return nil, errMalformedNode
	}
	kind := nodeKind(b[0])
	rest := b[1:]

	switch kind {
	case kindLeaf:
		keyBytes, rest, err := readUint32Prefixed(rest)
		if err != nil {
			return nil, err
		}
		key, err := gs.DecodeKey(keyBytes)
		if err != nil {
			return nil, err
		}
		value, err := gs.DecodeStoredValue(rest)
		if err != nil {
			return nil, err
		}
		return NewLeaf(key, value), nil

	case kindExtension:
		affix, rest, err := readUint32Prefixed(rest)
		if err != nil {
			return nil, err
		}
		if len(affix) == 0 {
			return nil, errMalformedNode
		}
		child, rest, err := readPointer(rest)
		if err != nil {
			return nil, err
		}
		if len(rest) != 0 {
			return nil, errMalformedNode
		}
		return NewExtension(affix, child), nil

	case kindBranch:
		n := NewBranch()
		cur := rest
		for i := 0; i < 256; i++ {
			var p Pointer
			var err error
			p, cur, err = readPointer(cur)
			if err != nil {
				return nil, err
			}
			n.Children[i] = p
		}
		if len(cur) != 0 {
			return nil, errMalformedNode
		}
		return n, nil

	default:
		return nil, errUnknownNodeKind
	}
}

func readUint32Prefixed(b []byte) (payload, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, errMalformedNode
	}
	n := binary.BigEndian.Uint32(b[:4])
	b = b[4:]
	if uint64(len(b)) < uint64(n) {
		return nil, nil, errMalformedNode
	}
	return b[:n], b[n:], nil
}

func readPointer(b []byte) (Pointer, []byte, error) {
	if len(b) < 1 {
		return Pointer{}, nil, errMalformedNode
	}
	kind := PointerKind(b[0])
	b = b[1:]
	if kind == Empty {
		return Pointer{Kind: Empty}, b, nil
	}
	if kind != LeafPointer && kind != NodePointer {
		return Pointer{}, nil, errUnknownPointerKind
	}
	if len(b) < digest.Size {
		return Pointer{}, nil, errMalformedNode
	}
	var d digest.Hash
	copy(d[:], b[:digest.Size])
	return Pointer{Kind: kind, Digest: d}, b[digest.Size:], nil
}
