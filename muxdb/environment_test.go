package muxdb_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/muxdb"
)

func openEnv(t *testing.T) *muxdb.Environment {
	t.Helper()
	env, err := muxdb.OpenMem()
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	return env
}

func TestTrieStorePutGetRoundTrip(t *testing.T) {
	env := openEnv(t)
	value := []byte("a serialised node")
	d := digest.Sum(value)

	err := env.Update(func(tx *muxdb.Tx) error {
		return tx.TrieStore().Put(d, value)
	})
	require.NoError(t, err)

	err = env.View(func(tx *muxdb.Tx) error {
		got, err := tx.TrieStore().Get(d)
		require.NoError(t, err)
		assert.Equal(t, value, got)
		return nil
	})
	require.NoError(t, err)
}

func TestTrieStoreRejectsWrongDigest(t *testing.T) {
	env := openEnv(t)
	value := []byte("a serialised node")
	wrongDigest := digest.Sum([]byte("different"))

	err := env.Update(func(tx *muxdb.Tx) error {
		return tx.TrieStore().Put(wrongDigest, value)
	})
	assert.Error(t, err)
}

func TestTrieStoreGetMissingIsNotFound(t *testing.T) {
	env := openEnv(t)
	err := env.View(func(tx *muxdb.Tx) error {
		_, err := tx.TrieStore().Get(digest.Sum([]byte("nope")))
		assert.True(t, tx.TrieStore().IsNotFound(err))
		return nil
	})
	require.NoError(t, err)
}

func TestProtocolDataStoreRoundTrip(t *testing.T) {
	env := openEnv(t)
	v := gs.NewProtocolVersion(1, 0, 0)
	d := gs.ProtocolData{WasmCosts: []byte{1, 2}, MaxAssociatedKeys: 5}

	err := env.Update(func(tx *muxdb.Tx) error {
		return tx.ProtocolDataStore().Put(v, d)
	})
	require.NoError(t, err)

	err = env.View(func(tx *muxdb.Tx) error {
		got, err := tx.ProtocolDataStore().Get(v)
		require.NoError(t, err)
		assert.Equal(t, d, got)
		return nil
	})
	require.NoError(t, err)
}

func TestUpdateAndViewIsolation(t *testing.T) {
	env := openEnv(t)
	value := []byte("x")
	d := digest.Sum(value)

	done := make(chan struct{})
	go func() {
		defer close(done)
		env.View(func(tx *muxdb.Tx) error {
			_, err := tx.TrieStore().Get(d)
			assert.True(t, tx.TrieStore().IsNotFound(err))
			return nil
		})
	}()
	<-done

	require.NoError(t, env.Update(func(tx *muxdb.Tx) error {
		return tx.TrieStore().Put(d, value)
	}))

	require.NoError(t, env.View(func(tx *muxdb.Tx) error {
		got, err := tx.TrieStore().Get(d)
		require.NoError(t, err)
		assert.Equal(t, value, got)
		return nil
	}))
}

func TestViewReturnsIoFailureWhenReaderSlotsExhausted(t *testing.T) {
	env, err := muxdb.Open(t.TempDir(), muxdb.Options{MaxReaders: 1})
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })

	entered := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = env.View(func(tx *muxdb.Tx) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered
	defer close(release)

	err = env.View(func(tx *muxdb.Tx) error { return nil })
	assert.Error(t, err)
}

// TestAbortedUpdateDoesNotLeaveNodesFalselyCached guards against a node
// written earlier in a multi-write Update being promoted into the
// shared cache before the whole transaction's fate is known: if a
// later write in the same Update fails, the bbolt transaction rolls
// back every write it made, and the cache must not disagree.
func TestAbortedUpdateDoesNotLeaveNodesFalselyCached(t *testing.T) {
	env := openEnv(t)
	value := []byte("a node written before the abort")
	d := digest.Sum(value)

	err := env.Update(func(tx *muxdb.Tx) error {
		if err := tx.TrieStore().Put(d, value); err != nil {
			return err
		}
		return errors.New("a later key's transform fails")
	})
	assert.Error(t, err)

	require.NoError(t, env.View(func(tx *muxdb.Tx) error {
		_, err := tx.TrieStore().Get(d)
		assert.True(t, tx.TrieStore().IsNotFound(err))
		return nil
	}))

	require.NoError(t, env.Update(func(tx *muxdb.Tx) error {
		return tx.TrieStore().Put(d, value)
	}))
	require.NoError(t, env.View(func(tx *muxdb.Tx) error {
		got, err := tx.TrieStore().Get(d)
		require.NoError(t, err)
		assert.Equal(t, value, got)
		return nil
	}))
}

// TestPutWithinSameTransactionIsReadableBeforeCommit exercises the
// pending-node overlay: a node written earlier in an in-flight Update
// must be visible to a later Get in that same transaction (trie.Write
// routinely reads back nodes it just wrote while building an updated
// path), without that visibility implying the shared cache has been
// populated ahead of commit.
func TestPutWithinSameTransactionIsReadableBeforeCommit(t *testing.T) {
	env := openEnv(t)
	value := []byte("read your own write")
	d := digest.Sum(value)

	require.NoError(t, env.Update(func(tx *muxdb.Tx) error {
		store := tx.TrieStore()
		if err := store.Put(d, value); err != nil {
			return err
		}
		got, err := store.Get(d)
		if err != nil {
			return err
		}
		assert.Equal(t, value, got)
		return nil
	}))
}
