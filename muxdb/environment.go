// Package muxdb implements an LMDB-shaped Environment and Transaction
// source on top of go.etcd.io/bbolt, the closest mmap'd B+-tree database
// reachable from this module's dependency graph. It owns the reader-slot
// semaphore, the serialised-node cache, and the two named buckets (trie
// nodes, protocol data) that share one database file.
package muxdb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/sync/semaphore"

	"github.com/globalstate/engine/cache"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/log"
	"github.com/globalstate/engine/metrics"
)

var (
	trieBucketName         = []byte("trie")
	protocolDataBucketName = []byte("protocoldata")
)

var (
	metricReaders   = metrics.Gauge("muxdb_open_readers")
	metricReaderCap = metrics.Gauge("muxdb_reader_cap_exhausted")
)

// Environment owns the backing database handle, the reader-slot
// semaphore standing in for LMDB's fixed reader table, and a shared
// cache of serialised trie nodes. It is safe for concurrent use by multiple
// readers and at most one writer, mirroring bbolt's own discipline.
type Environment struct {
	db       *bolt.DB
	readSlot *semaphore.Weighted
	nodes    *cache.NodeCache
	memDir   string
}

// Open opens (creating if absent) a database directory at path.
func Open(path string, opts Options) (*Environment, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	boltOpts := &bolt.Options{
		Timeout:         opts.OpenTimeout,
		NoSync:          opts.NoSync,
		NoFreelistSync:  opts.NoMetaSync,
		InitialMmapSize: int(opts.maxDBSize()),
	}
	// WriteMap (mapping the data file MAP_SHARED for in-place writes) has
	// no direct bbolt equivalent; bbolt always writes through a private
	// copy-on-write mapping. Left as a documented no-op.

	db, err := bolt.Open(filepath.Join(path, "globalstate.db"), 0o600, boltOpts)
	if err != nil {
		return nil, err
	}

	env := newEnvironment(db, opts)
	if err := env.ensureBuckets(); err != nil {
		db.Close()
		return nil, err
	}
	env.logger().Debug("environment opened", "path", path)
	return env, nil
}

// OpenMem opens a throwaway, temp-directory-backed Environment for
// tests. bbolt has no pure in-memory mode, so this is a best-effort
// stand-in.
func OpenMem() (*Environment, error) {
	dir, err := os.MkdirTemp("", "globalstate-mem-*")
	if err != nil {
		return nil, err
	}
	env, err := Open(dir, Options{})
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	env.memDir = dir
	return env, nil
}

func newEnvironment(db *bolt.DB, opts Options) *Environment {
	return &Environment{
		db:       db,
		readSlot: semaphore.NewWeighted(int64(opts.maxReaders())),
		nodes:    cache.NewNodeCache(16384),
	}
}

// CacheStats returns the node cache's cumulative hit and miss
// counts since the Environment was opened.
func (e *Environment) CacheStats() (hits, misses int64) {
	return e.nodes.Stats()
}

func (e *Environment) ensureBuckets() error {
	return e.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(trieBucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(protocolDataBucketName)
		return err
	})
}

// Close releases the database handle and, for an OpenMem environment,
// removes its backing temp directory.
func (e *Environment) Close() error {
	err := e.db.Close()
	if e.memDir != "" {
		os.RemoveAll(e.memDir)
	}
	return err
}

// View runs fn inside a read-only transaction. Any number of Views may
// run concurrently, bounded by the MaxReaders semaphore; once that
// many read transactions are already open, View returns an
// ErrIoFailure rather than blocking, so callers see the failure
// immediately instead of stalling on a full reader table.
func (e *Environment) View(fn func(*Tx) error) error {
	if !e.readSlot.TryAcquire(1) {
		metricReaderCap.Add(1)
		return gs.NewIoFailure(errors.New("muxdb: reader slots exhausted"))
	}
	metricReaders.Add(1)
	defer func() {
		e.readSlot.Release(1)
		metricReaders.Add(-1)
	}()

	return e.db.View(func(btx *bolt.Tx) error {
		return fn(newTx(e, btx))
	})
}

// Update runs fn inside the single read-write transaction bbolt
// serialises internally; no additional writer mutex is needed on top.
// Nodes fn writes through a TrieStore are only promoted into the
// shared node cache once this transaction actually commits — while fn
// is running, those writes are visible only within the bbolt
// transaction itself, so an aborted Update (fn returning an error, or
// any store error) never leaves the cache claiming a node is present
// that was never durably written.
func (e *Environment) Update(fn func(*Tx) error) error {
	tx := &Tx{env: e}
	err := e.db.Update(func(btx *bolt.Tx) error {
		tx.btx = btx
		return fn(tx)
	})
	if err != nil {
		return err
	}
	for d, v := range tx.pending {
		e.nodes.Add(d, v)
	}
	return nil
}

func (e *Environment) logger() log.Logger {
	return log.Root().With("pkg", "muxdb")
}
