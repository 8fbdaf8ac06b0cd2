// Package gs holds the typed-key / typed-value / transform domain model
// that sits on top of the content-addressed trie: the opaque Key and
// StoredValue shapes, the commit-time Transform semigroup, protocol-data
// records, and the error taxonomy shared by the trie and state packages.
package gs

import (
	"github.com/pkg/errors"

	"github.com/globalstate/engine/digest"
)

// ErrRootNotFound indicates the given root digest has no corresponding
// trie node in the store.
var ErrRootNotFound = errors.New("gs: root not found")

// ErrIoFailure wraps a failure reported by the underlying store
// (disk error, map full, reader slots exhausted). It is never retried
// inside the core.
type ErrIoFailure struct {
	cause error
}

// NewIoFailure wraps cause as an ErrIoFailure.
func NewIoFailure(cause error) error {
	if cause == nil {
		return nil
	}
	return &ErrIoFailure{cause: cause}
}

func (e *ErrIoFailure) Error() string { return "gs: io failure: " + e.cause.Error() }
func (e *ErrIoFailure) Unwrap() error { return e.cause }

// ErrSerialisation indicates a node or value failed to (de)serialise,
// implying either on-disk corruption or a schema mismatch.
type ErrSerialisation struct {
	Digest digest.Hash
	cause  error
}

// NewSerialisationError wraps cause, attributing it to the given digest.
func NewSerialisationError(d digest.Hash, cause error) error {
	return &ErrSerialisation{Digest: d, cause: cause}
}

func (e *ErrSerialisation) Error() string {
	return errors.Wrapf(e.cause, "gs: serialisation failure at %s", e.Digest).Error()
}
func (e *ErrSerialisation) Unwrap() error { return e.cause }

// TransformCause names why a commit-time Transform could not be applied.
type TransformCause int

const (
	// CauseTypeMismatch means the transform's operand kind does not match
	// the stored value's kind.
	CauseTypeMismatch TransformCause = iota
	// CauseOverflow means an additive transform overflowed its fixed width.
	CauseOverflow
	// CauseKeyNotFound means a non-Write transform targeted an absent key.
	CauseKeyNotFound
)

func (c TransformCause) String() string {
	switch c {
	case CauseTypeMismatch:
		return "type mismatch"
	case CauseOverflow:
		return "overflow"
	case CauseKeyNotFound:
		return "key not found"
	default:
		return "unknown"
	}
}

// TransformFailure is returned inside a CommitResult when a transform
// could not be applied to the key it targets; the transaction is
// aborted and no partial subtree is committed.
type TransformFailure struct {
	Key   Key
	Cause TransformCause
}

func (e *TransformFailure) Error() string {
	return errors.Errorf("gs: transform failure on key %x: %s", e.Key.Bytes(), e.Cause).Error()
}
