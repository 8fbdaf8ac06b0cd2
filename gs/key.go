package gs

import (
	"github.com/globalstate/engine/digest"
)

// Key is an opaque typed key that serialises to a deterministic byte
// string. Its trie address is the digest of that serialisation.
type Key interface {
	// Bytes returns the deterministic canonical serialisation of the key.
	Bytes() []byte
}

// Address returns the trie address of k: digest(serialise(k)).
func Address(k Key) digest.Hash {
	return digest.Sum(k.Bytes())
}

// keyTag distinguishes Key implementations inside the canonical
// encoding so a decoded leaf can reconstruct the concrete key type.
type keyTag byte

const (
	tagAccountKey keyTag = iota + 1
	tagHashKey
)

// AccountKey addresses an account entry by its 32-byte account hash.
type AccountKey struct {
	Address [32]byte
}

// NewAccountKey builds an AccountKey from a 32-byte address.
func NewAccountKey(addr [32]byte) AccountKey {
	return AccountKey{Address: addr}
}

// Bytes implements Key.
func (k AccountKey) Bytes() []byte {
	b := make([]byte, 0, 33)
	b = append(b, byte(tagAccountKey))
	b = append(b, k.Address[:]...)
	return b
}

// HashKey addresses an arbitrary pre-hashed entry directly by digest,
// for entries that do not need a richer key shape.
type HashKey struct {
	Hash digest.Hash
}

// Bytes implements Key.
func (k HashKey) Bytes() []byte {
	b := make([]byte, 0, 33)
	b = append(b, byte(tagHashKey))
	b = append(b, k.Hash[:]...)
	return b
}

// DecodeKey reconstructs a concrete Key from its canonical encoding, the
// inverse of Bytes(). It is used when decoding a stored Leaf node, which
// must carry a fully decoded key rather than just its raw bytes so that
// traversal can compare the remainder of the trie address against it.
func DecodeKey(b []byte) (Key, error) {
	if len(b) == 0 {
		return nil, errEmptyKeyEncoding
	}
	switch keyTag(b[0]) {
	case tagAccountKey:
		if len(b) != 33 {
			return nil, errMalformedKeyEncoding
		}
		var addr [32]byte
		copy(addr[:], b[1:])
		return AccountKey{Address: addr}, nil
	case tagHashKey:
		if len(b) != 33 {
			return nil, errMalformedKeyEncoding
		}
		var h digest.Hash
		copy(h[:], b[1:])
		return HashKey{Hash: h}, nil
	default:
		return nil, errUnknownKeyTag
	}
}
