package kv

import (
	"bytes"

	bolt "go.etcd.io/bbolt"
)

// Bucket adapts a bbolt bucket, scoped to one transaction, to the Store
// contract. It is the concrete store muxdb hands to the trie and state
// packages; neither package imports bbolt directly.
type Bucket struct {
	b *bolt.Bucket
}

// NewStore wraps a live *bolt.Bucket as a Store. b is nil when the
// bucket does not yet exist inside a read-only transaction; NewStore
// still returns a usable (empty) Store in that case.
func NewStore(b *bolt.Bucket) *Bucket {
	return &Bucket{b: b}
}

// Get implements Getter.
func (s *Bucket) Get(key []byte) ([]byte, error) {
	if s.b == nil {
		return nil, ErrNotFound
	}
	v := s.b.Get(key)
	if v == nil {
		return nil, ErrNotFound
	}
	// bbolt's returned slice is only valid for the lifetime of the
	// transaction; copy it so callers may retain it afterwards.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put implements Putter.
func (s *Bucket) Put(key, value []byte) error {
	if s.b == nil {
		return ErrNotFound
	}
	return s.b.Put(key, value)
}

// Delete implements Putter.
func (s *Bucket) Delete(key []byte) error {
	if s.b == nil {
		return ErrNotFound
	}
	return s.b.Delete(key)
}

// IsNotFound implements IsNotFounder.
func (s *Bucket) IsNotFound(err error) bool {
	return err == ErrNotFound
}

// Iterate implements Iteratee.
func (s *Bucket) Iterate(r Range) Iterator {
	if s.b == nil {
		return &emptyIterator{}
	}
	return &boltIterator{cursor: s.b.Cursor(), r: r, first: true}
}

type emptyIterator struct{}

func (*emptyIterator) Next() bool  { return false }
func (*emptyIterator) Item() Pair  { return Pair{} }
func (*emptyIterator) Error() error { return nil }

// boltIterator walks a bolt.Cursor within [r.Start, r.Limit).
type boltIterator struct {
	cursor *bolt.Cursor
	r      Range
	first  bool
	key    []byte
	val    []byte
	done   bool
}

func (it *boltIterator) Next() bool {
	if it.done {
		return false
	}
	var k, v []byte
	if it.first {
		it.first = false
		if it.r.Start != nil {
			k, v = it.cursor.Seek(it.r.Start)
		} else {
			k, v = it.cursor.First()
		}
	} else {
		k, v = it.cursor.Next()
	}
	if k == nil {
		it.done = true
		return false
	}
	if it.r.Limit != nil && bytes.Compare(k, it.r.Limit) >= 0 {
		it.done = true
		return false
	}
	it.key = append(it.key[:0], k...)
	it.val = append(it.val[:0], v...)
	return true
}

func (it *boltIterator) Item() Pair {
	return Pair{Key: it.key, Value: it.val}
}

func (it *boltIterator) Error() error { return nil }
