package gs

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
)

// TransformTag names the concrete shape of a Transform.
type TransformTag byte

const (
	// TagIdentity leaves the target key's existing value untouched; it
	// exists purely as the semigroup's identity element.
	TagIdentity TransformTag = iota + 1
	// TagWrite unconditionally replaces the target's value.
	TagWrite
	// TagAddI32 adds a signed 32-bit delta to an existing I32 value.
	TagAddI32
	// TagAddU64 adds an unsigned 64-bit delta to an existing U64 value.
	TagAddU64
	// TagAddU128 adds to an existing U128 value, checked for overflow.
	TagAddU128
	// TagAddU256 adds to an existing U256 value, checked for overflow.
	TagAddU256
	// TagAddU512 adds to an existing U512 value, checked for overflow.
	TagAddU512
	// TagAddKeys unions a set of keys into an existing Keys value.
	TagAddKeys
)

// Transform is an effect to be folded and applied against the value
// currently stored at some key. Transforms of the same tag combine
// associatively under Merge; Apply folds a Transform onto a pre-existing
// StoredValue (absent for a fresh key) to produce the committed value.
type Transform struct {
	Tag  TransformTag
	I32  int32
	U64  uint64
	Big  *big.Int // AddU128/U256/U512 operand
	Keys []digest.Hash
	Val  StoredValue // Write payload
}

// Identity returns the neutral Transform.
func Identity() Transform { return Transform{Tag: TagIdentity} }

// Write returns a Transform that replaces the target's value outright.
func Write(v StoredValue) Transform { return Transform{Tag: TagWrite, Val: v} }

// AddI32 returns a Transform that adds delta to an existing I32 value.
func AddI32(delta int32) Transform { return Transform{Tag: TagAddI32, I32: delta} }

// AddU64 returns a Transform that adds delta to an existing U64 value.
func AddU64(delta uint64) Transform { return Transform{Tag: TagAddU64, U64: delta} }

// AddU128 returns a Transform that adds delta to an existing U128 value.
func AddU128(delta *big.Int) Transform { return Transform{Tag: TagAddU128, Big: delta} }

// AddU256 returns a Transform that adds delta to an existing U256 value.
func AddU256(delta *big.Int) Transform { return Transform{Tag: TagAddU256, Big: delta} }

// AddU512 returns a Transform that adds delta to an existing U512 value.
func AddU512(delta *big.Int) Transform { return Transform{Tag: TagAddU512, Big: delta} }

// AddKeys returns a Transform that unions ks into an existing Keys value.
func AddKeys(ks []digest.Hash) Transform { return Transform{Tag: TagAddKeys, Keys: normalizeKeys(ks)} }

// Merge combines t and next, the Transform recorded immediately after t
// against the same key within one commit's effects, into a single
// Transform equivalent to applying t then next. Merge is associative:
// Merge(Merge(a,b),c) == Merge(a,Merge(b,c)). next always takes
// precedence on shape conflicts (e.g. a Write after anything wins
// outright) since it was recorded later.
func Merge(t, next Transform) Transform {
	switch {
	case next.Tag == TagIdentity:
		return t
	case t.Tag == TagIdentity:
		return next
	case next.Tag == TagWrite:
		return next
	case t.Tag == TagWrite:
		// A later additive transform folds its delta into the write's
		// literal payload so the net effect still applies in one step.
		folded, ok := foldAddIntoWrite(t.Val, next)
		if ok {
			return Write(folded)
		}
		return next
	case t.Tag == next.Tag:
		return mergeLike(t, next)
	default:
		// Incompatible additive shapes recorded back-to-back: keep both
		// by preferring the later one. Apply will surface the mismatch
		// as a TransformFailure against whatever is actually stored.
		return next
	}
}

func foldAddIntoWrite(v StoredValue, add Transform) (StoredValue, bool) {
	switch add.Tag {
	case TagAddI32:
		if v.Kind != KindI32 {
			return v, false
		}
		return CLI32(v.I32 + add.I32), true
	case TagAddU64:
		if v.Kind != KindU64 {
			return v, false
		}
		return CLU64(v.U64 + add.U64), true
	case TagAddU128, TagAddU256, TagAddU512:
		kind := kindForAddTag(add.Tag)
		if v.Kind != kind {
			return v, false
		}
		sum := new(big.Int).Add(bigOrZero(v.Big), bigOrZero(add.Big))
		out, err := clFixed(kind, sum)
		if err != nil {
			return v, false
		}
		return out, true
	case TagAddKeys:
		if v.Kind != KindKeys {
			return v, false
		}
		return CLKeys(append(append([]digest.Hash{}, v.Keys...), add.Keys...)), true
	default:
		return v, false
	}
}

func mergeLike(t, next Transform) Transform {
	switch t.Tag {
	case TagAddI32:
		return AddI32(t.I32 + next.I32)
	case TagAddU64:
		return AddU64(t.U64 + next.U64)
	case TagAddU128, TagAddU256, TagAddU512:
		return Transform{Tag: t.Tag, Big: new(big.Int).Add(bigOrZero(t.Big), bigOrZero(next.Big))}
	case TagAddKeys:
		return AddKeys(append(append([]digest.Hash{}, t.Keys...), next.Keys...))
	default:
		return next
	}
}

func kindForAddTag(tag TransformTag) ValueKind {
	switch tag {
	case TagAddU128:
		return KindU128
	case TagAddU256:
		return KindU256
	case TagAddU512:
		return KindU512
	default:
		return 0
	}
}

// Apply folds t onto existing (the current value at t's target key,
// absent=false if the key does not yet exist) and returns the value to
// commit. An absent key only accepts TagWrite; anything else is a
// CauseKeyNotFound TransformFailure.
func Apply(existing StoredValue, absent bool, t Transform) (StoredValue, error) {
	if t.Tag == TagIdentity {
		if absent {
			return StoredValue{}, &TransformFailure{Cause: CauseKeyNotFound}
		}
		return existing, nil
	}
	if t.Tag == TagWrite {
		return t.Val, nil
	}
	if absent {
		return StoredValue{}, &TransformFailure{Cause: CauseKeyNotFound}
	}

	switch t.Tag {
	case TagAddI32:
		if existing.Kind != KindI32 {
			return StoredValue{}, &TransformFailure{Cause: CauseTypeMismatch}
		}
		return CLI32(existing.I32 + t.I32), nil
	case TagAddU64:
		if existing.Kind != KindU64 {
			return StoredValue{}, &TransformFailure{Cause: CauseTypeMismatch}
		}
		sum := existing.U64 + t.U64
		if sum < existing.U64 {
			return StoredValue{}, &TransformFailure{Cause: CauseOverflow}
		}
		return CLU64(sum), nil
	case TagAddU128, TagAddU256, TagAddU512:
		kind := kindForAddTag(t.Tag)
		if existing.Kind != kind {
			return StoredValue{}, &TransformFailure{Cause: CauseTypeMismatch}
		}
		sum := new(big.Int).Add(bigOrZero(existing.Big), bigOrZero(t.Big))
		out, err := clFixed(kind, sum)
		if err != nil {
			return StoredValue{}, &TransformFailure{Cause: CauseOverflow}
		}
		return out, nil
	case TagAddKeys:
		if existing.Kind != KindKeys {
			return StoredValue{}, &TransformFailure{Cause: CauseTypeMismatch}
		}
		return CLKeys(append(append([]digest.Hash{}, existing.Keys...), t.Keys...)), nil
	default:
		return StoredValue{}, errors.Errorf("gs: unknown transform tag %d", t.Tag)
	}
}

// AdditiveMap is the ordered collection of per-key effects produced by
// one execution step, folded key-by-key via Merge before being handed to
// the commit engine. Recording order matters: within a key, transforms
// merge in the order they were added.
type AdditiveMap struct {
	order []Key
	byKey map[digest.Hash]Transform
	keys  map[digest.Hash]Key
}

// NewAdditiveMap returns an empty AdditiveMap.
func NewAdditiveMap() *AdditiveMap {
	return &AdditiveMap{
		byKey: make(map[digest.Hash]Transform),
		keys:  make(map[digest.Hash]Key),
	}
}

// Add records t against k, merging it with any transform already
// recorded for k in this map.
func (m *AdditiveMap) Add(k Key, t Transform) {
	addr := Address(k)
	if existing, ok := m.byKey[addr]; ok {
		m.byKey[addr] = Merge(existing, t)
		return
	}
	m.byKey[addr] = t
	m.keys[addr] = k
	m.order = append(m.order, k)
}

// Len returns the number of distinct keys recorded.
func (m *AdditiveMap) Len() int { return len(m.order) }

// Entry pairs a key with its folded transform.
type Entry struct {
	Key       Key
	Transform Transform
}

// Entries returns the map's entries in deterministic order: first
// insertion order is preserved for reproducibility across runs given
// identical input, but callers that need canonical ordering regardless
// of insertion history should use SortedEntries.
func (m *AdditiveMap) Entries() []Entry {
	out := make([]Entry, 0, len(m.order))
	for _, k := range m.order {
		out = append(out, Entry{Key: k, Transform: m.byKey[Address(k)]})
	}
	return out
}

// SortedEntries returns the map's entries ordered by key address, giving
// a canonical iteration order independent of insertion history.
func (m *AdditiveMap) SortedEntries() []Entry {
	out := m.Entries()
	sort.Slice(out, func(i, j int) bool {
		return Address(out[i].Key).Compare(Address(out[j].Key)) < 0
	})
	return out
}
