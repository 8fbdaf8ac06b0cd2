package gs

import (
	"encoding/binary"
	"math/big"
	"sort"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
)

var (
	errEmptyKeyEncoding     = errors.New("gs: empty key encoding")
	errMalformedKeyEncoding = errors.New("gs: malformed key encoding")
	errUnknownKeyTag        = errors.New("gs: unknown key tag")

	errEmptyValueEncoding     = errors.New("gs: empty value encoding")
	errMalformedValueEncoding = errors.New("gs: malformed value encoding")
	errUnknownValueKind       = errors.New("gs: unknown value kind")
)

// ValueKind tags the concrete shape carried by a StoredValue, the
// storage core's stand-in for the original system's typed CLValue.
type ValueKind byte

const (
	// KindI32 is a signed 32-bit scalar.
	KindI32 ValueKind = iota + 1
	// KindString is a UTF-8 string.
	KindString
	// KindU64 is an unsigned 64-bit scalar.
	KindU64
	// KindU128 is a fixed-width 128-bit unsigned integer.
	KindU128
	// KindU256 is a fixed-width 256-bit unsigned integer.
	KindU256
	// KindU512 is a fixed-width 512-bit unsigned integer.
	KindU512
	// KindKeys is an ordered, deduplicated set of digests (named keys).
	KindKeys
)

// widths in bytes for the fixed-width unsigned kinds.
var fixedWidth = map[ValueKind]int{
	KindU128: 16,
	KindU256: 32,
	KindU512: 64,
}

// StoredValue is the opaque, variable-shape typed value stored at trie
// leaves. It supports deterministic serialisation and the arithmetic
// needed by the commit engine's additive Transforms.
type StoredValue struct {
	Kind ValueKind
	I32  int32
	Str  string
	U64  uint64
	Big  *big.Int // used by KindU128/U256/U512, always non-negative
	Keys []digest.Hash
}

// CLI32 constructs an I32-shaped StoredValue.
func CLI32(v int32) StoredValue { return StoredValue{Kind: KindI32, I32: v} }

// CLString constructs a String-shaped StoredValue.
func CLString(v string) StoredValue { return StoredValue{Kind: KindString, Str: v} }

// CLU64 constructs a U64-shaped StoredValue.
func CLU64(v uint64) StoredValue { return StoredValue{Kind: KindU64, U64: v} }

// CLU128 constructs a U128-shaped StoredValue, erroring if v does not
// fit in 128 bits or is negative.
func CLU128(v *big.Int) (StoredValue, error) { return clFixed(KindU128, v) }

// CLU256 constructs a U256-shaped StoredValue.
func CLU256(v *big.Int) (StoredValue, error) { return clFixed(KindU256, v) }

// CLU512 constructs a U512-shaped StoredValue.
func CLU512(v *big.Int) (StoredValue, error) { return clFixed(KindU512, v) }

// CLKeys constructs a Keys-shaped StoredValue, deduplicating and sorting
// its members so equal sets always produce an equal, canonical value.
func CLKeys(ks []digest.Hash) StoredValue {
	return StoredValue{Kind: KindKeys, Keys: normalizeKeys(ks)}
}

func clFixed(kind ValueKind, v *big.Int) (StoredValue, error) {
	if v == nil || v.Sign() < 0 {
		return StoredValue{}, errors.Errorf("gs: %v must be non-negative", kind)
	}
	if kind == KindU256 {
		// uint256.Int.SetFromBig reports overflow rather than silently
		// truncating, so route the bound check through it instead of a
		// manual bit-length comparison.
		u, overflow := new(uint256.Int).SetFromBig(v)
		if overflow {
			return StoredValue{}, &TransformFailure{Cause: CauseOverflow}
		}
		return StoredValue{Kind: kind, Big: u.ToBig()}, nil
	}
	width := fixedWidth[kind]
	if v.BitLen() > width*8 {
		return StoredValue{}, &TransformFailure{Cause: CauseOverflow}
	}
	return StoredValue{Kind: kind, Big: new(big.Int).Set(v)}, nil
}

func normalizeKeys(ks []digest.Hash) []digest.Hash {
	seen := make(map[digest.Hash]struct{}, len(ks))
	out := make([]digest.Hash, 0, len(ks))
	for _, k := range ks {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out
}

// Equal reports deep equality between two StoredValues.
func (v StoredValue) Equal(o StoredValue) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindI32:
		return v.I32 == o.I32
	case KindString:
		return v.Str == o.Str
	case KindU64:
		return v.U64 == o.U64
	case KindU128, KindU256, KindU512:
		return bigOrZero(v.Big).Cmp(bigOrZero(o.Big)) == 0
	case KindKeys:
		if len(v.Keys) != len(o.Keys) {
			return false
		}
		for i := range v.Keys {
			if v.Keys[i] != o.Keys[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func bigOrZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b
}

// Bytes returns the canonical binary encoding of v: a one-byte kind tag
// followed by a kind-specific, length-unambiguous payload. This is the
// format that feeds leaf-node digests, so it must be stable and
// self-delimiting.
func (v StoredValue) Bytes() []byte {
	switch v.Kind {
	case KindI32:
		b := make([]byte, 5)
		b[0] = byte(KindI32)
		binary.BigEndian.PutUint32(b[1:], uint32(v.I32))
		return b
	case KindString:
		s := []byte(v.Str)
		b := make([]byte, 5+len(s))
		b[0] = byte(KindString)
		binary.BigEndian.PutUint32(b[1:5], uint32(len(s)))
		copy(b[5:], s)
		return b
	case KindU64:
		b := make([]byte, 9)
		b[0] = byte(KindU64)
		binary.BigEndian.PutUint64(b[1:], v.U64)
		return b
	case KindU128, KindU256, KindU512:
		width := fixedWidth[v.Kind]
		b := make([]byte, 1+width)
		b[0] = byte(v.Kind)
		bigOrZero(v.Big).FillBytes(b[1:])
		return b
	case KindKeys:
		b := make([]byte, 1, 1+4+len(v.Keys)*digest.Size)
		b[0] = byte(KindKeys)
		count := make([]byte, 4)
		binary.BigEndian.PutUint32(count, uint32(len(v.Keys)))
		b = append(b, count...)
		for _, k := range v.Keys {
			b = append(b, k[:]...)
		}
		return b
	default:
		return []byte{byte(v.Kind)}
	}
}

// DecodeStoredValue is the inverse of StoredValue.Bytes.
func DecodeStoredValue(b []byte) (StoredValue, error) {
	if len(b) == 0 {
		return StoredValue{}, errEmptyValueEncoding
	}
	kind := ValueKind(b[0])
	payload := b[1:]
	switch kind {
	case KindI32:
		if len(payload) != 4 {
			return StoredValue{}, errMalformedValueEncoding
		}
		return CLI32(int32(binary.BigEndian.Uint32(payload))), nil
	case KindString:
		if len(payload) < 4 {
			return StoredValue{}, errMalformedValueEncoding
		}
		n := binary.BigEndian.Uint32(payload[:4])
		if uint32(len(payload)-4) != n {
			return StoredValue{}, errMalformedValueEncoding
		}
		return CLString(string(payload[4:])), nil
	case KindU64:
		if len(payload) != 8 {
			return StoredValue{}, errMalformedValueEncoding
		}
		return CLU64(binary.BigEndian.Uint64(payload)), nil
	case KindU128, KindU256, KindU512:
		width := fixedWidth[kind]
		if len(payload) != width {
			return StoredValue{}, errMalformedValueEncoding
		}
		return StoredValue{Kind: kind, Big: new(big.Int).SetBytes(payload)}, nil
	case KindKeys:
		if len(payload) < 4 {
			return StoredValue{}, errMalformedValueEncoding
		}
		n := binary.BigEndian.Uint32(payload[:4])
		rest := payload[4:]
		if uint32(len(rest)) != n*uint32(digest.Size) {
			return StoredValue{}, errMalformedValueEncoding
		}
		keys := make([]digest.Hash, n)
		for i := range keys {
			copy(keys[i][:], rest[i*digest.Size:(i+1)*digest.Size])
		}
		return StoredValue{Kind: KindKeys, Keys: keys}, nil
	default:
		return StoredValue{}, errUnknownValueKind
	}
}
