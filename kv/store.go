// Package kv defines the generic key-value store contract that the
// muxdb package's bucket-scoped stores satisfy: Getter/Putter/Iterator
// split over a transaction-scoped bucket, so that the trie and state
// packages never depend on the concrete backend.
package kv

import "github.com/pkg/errors"

// ErrNotFound is returned by Getter.Get when the key is absent.
var ErrNotFound = errors.New("kv: not found")

// Getter reads a single value by key.
type Getter interface {
	Get(key []byte) (value []byte, err error)
}

// Putter writes or deletes a single value by key.
type Putter interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// IsNotFounder reports whether err denotes "key not found", letting
// callers branch on absence without depending on a concrete sentinel
// from a specific backend.
type IsNotFounder interface {
	IsNotFound(err error) bool
}

// Pair is a single key/value entry, yielded by Iterator.
type Pair struct {
	Key   []byte
	Value []byte
}

// Iterator walks a key range in ascending key order.
type Iterator interface {
	Next() bool
	Item() Pair
	Error() error
}

// Range bounds an iteration: from Start (inclusive) up to but excluding
// Limit. A nil Limit means "no upper bound"; a nil Start means "from the
// beginning".
type Range struct {
	Start []byte
	Limit []byte
}

// Iteratee opens a range iterator.
type Iteratee interface {
	Iterate(r Range) Iterator
}

// Store is the full contract a bucket-scoped store satisfies: get, put,
// delete, not-found classification, and ranged iteration.
type Store interface {
	Getter
	Putter
	IsNotFounder
	Iteratee
}
