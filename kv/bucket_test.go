package kv_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/globalstate/engine/kv"
)

func openTestBucket(t *testing.T) (*bolt.DB, *bolt.Bucket) {
	t.Helper()
	db, err := bolt.Open(filepath.Join(t.TempDir(), "test.db"), 0600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var bucket *bolt.Bucket
	tx, err := db.Begin(true)
	require.NoError(t, err)
	bucket, err = tx.CreateBucket([]byte("test"))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	tx, err = db.Begin(true)
	require.NoError(t, err)
	bucket = tx.Bucket([]byte("test"))
	t.Cleanup(func() { tx.Rollback() })
	return db, bucket
}

func TestBucketGetPutDelete(t *testing.T) {
	_, b := openTestBucket(t)
	store := kv.NewStore(b)

	_, err := store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))

	require.NoError(t, store.Put([]byte("k"), []byte("v")))
	got, err := store.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, store.Delete([]byte("k")))
	_, err = store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))
}

func TestBucketIterateRange(t *testing.T) {
	_, b := openTestBucket(t)
	store := kv.NewStore(b)

	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Put([]byte(k), []byte(k+"v")))
	}

	it := store.Iterate(kv.Range{Start: []byte("b"), Limit: []byte("d")})
	var got []string
	for it.Next() {
		got = append(got, string(it.Item().Key))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"b", "c"}, got)
}

func TestBucketIterateFull(t *testing.T) {
	_, b := openTestBucket(t)
	store := kv.NewStore(b)
	require.NoError(t, store.Put([]byte("x"), []byte("1")))
	require.NoError(t, store.Put([]byte("y"), []byte("2")))

	it := store.Iterate(kv.Range{})
	count := 0
	for it.Next() {
		count++
	}
	assert.Equal(t, 2, count)
}

func TestBucketNilIsEmpty(t *testing.T) {
	store := kv.NewStore(nil)
	_, err := store.Get([]byte("k"))
	assert.True(t, store.IsNotFound(err))
	assert.Error(t, store.Put([]byte("k"), []byte("v")))

	it := store.Iterate(kv.Range{})
	assert.False(t, it.Next())
}
