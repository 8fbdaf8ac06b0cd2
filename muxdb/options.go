package muxdb

import "time"

// Options configures an Environment. The zero value is fully durable:
// synchronous writes, a generous default reader cap, and no unsafe mmap
// tricks — the safe default for production use. Bulk-ingest callers
// that can tolerate losing the last few transactions on a crash may
// relax NoSync/NoMetaSync for throughput.
type Options struct {
	// MaxDBSize sets the initial size of the backing mmap (bbolt's
	// InitialMmapSize). It is not a hard bound: bbolt grows the mapping
	// past it as the data file grows. Zero selects 1 GiB.
	MaxDBSize int64

	// MaxReaders bounds the number of concurrent read transactions.
	// bbolt has no native reader cap (unlike LMDB's fixed reader-slot
	// table), so this is enforced by a counting semaphore in front of
	// every View call. Zero selects a generous default (4096).
	MaxReaders int

	// NoSync skips the fsync bbolt normally issues after every commit,
	// trading crash durability for write throughput. Maps to bbolt's
	// DB.NoSync.
	NoSync bool

	// NoMetaSync skips syncing the freelist specifically. Maps to
	// bbolt's DB.NoFreelistSync; bbolt has no separate "meta" sync
	// distinct from the data file sync LMDB exposes, so this is the
	// closest analogue.
	NoMetaSync bool

	// NoLock is accepted for configuration compatibility but has no
	// effect: Open does not pass it to bbolt, and bbolt always takes its
	// exclusive file lock on open.
	NoLock bool

	// WriteMap is accepted for configuration compatibility but has no
	// effect: bbolt has no writable-mmap mode, so Open ignores it and
	// the data file is always written through bbolt's own write path.
	WriteMap bool

	// OpenTimeout bounds how long Open waits to acquire the exclusive
	// file lock before giving up. Zero means bbolt's default (no
	// timeout, blocks indefinitely).
	OpenTimeout time.Duration
}

const (
	defaultMaxDBSize  = 1 << 30 // 1 GiB
	defaultMaxReaders = 4096
)

func (o Options) maxDBSize() int64 {
	if o.MaxDBSize <= 0 {
		return defaultMaxDBSize
	}
	return o.MaxDBSize
}

func (o Options) maxReaders() int {
	if o.MaxReaders <= 0 {
		return defaultMaxReaders
	}
	return o.MaxReaders
}
