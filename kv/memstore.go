package kv

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// MemStore is a pure in-memory Store backed by goleveldb's MemStorage,
// used by the trie package's unit tests: they need a Store without real
// mmap/durability semantics, and spinning up a throwaway bbolt file per
// test case is needless overhead.
type MemStore struct {
	db *leveldb.DB
}

// NewMemStore opens a fresh in-memory store.
func NewMemStore() *MemStore {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		// MemStorage never fails to open.
		panic(err)
	}
	return &MemStore{db: db}
}

// Close releases the underlying in-memory database.
func (s *MemStore) Close() error { return s.db.Close() }

// Get implements Getter.
func (s *MemStore) Get(key []byte) ([]byte, error) {
	v, err := s.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

// Put implements Putter.
func (s *MemStore) Put(key, value []byte) error {
	return s.db.Put(key, value, nil)
}

// Delete implements Putter.
func (s *MemStore) Delete(key []byte) error {
	return s.db.Delete(key, nil)
}

// IsNotFound implements IsNotFounder.
func (s *MemStore) IsNotFound(err error) bool { return err == ErrNotFound }

// Iterate implements Iteratee.
func (s *MemStore) Iterate(r Range) Iterator {
	it := s.db.NewIterator(&util.Range{Start: r.Start, Limit: r.Limit}, nil)
	return &memIterator{it: it}
}

type memIterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
}

func (m *memIterator) Next() bool {
	if m.it.Next() {
		return true
	}
	m.it.Release()
	return false
}

func (m *memIterator) Item() Pair { return Pair{Key: m.it.Key(), Value: m.it.Value()} }
func (m *memIterator) Error() error { return m.it.Error() }
