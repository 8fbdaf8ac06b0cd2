package muxdb

import (
	bolt "go.etcd.io/bbolt"

	"github.com/globalstate/engine/digest"
	"github.com/globalstate/engine/kv"
)

// Tx wraps a bbolt transaction, exposing the two named buckets this
// repository's Environment always provisions. A writable Tx also
// stages trie nodes written through its TrieStore in pending, an
// uncommitted overlay promoted into the Environment's shared node
// cache only if the transaction commits (see Environment.Update).
type Tx struct {
	env     *Environment
	btx     *bolt.Tx
	pending map[digest.Hash][]byte
}

func newTx(env *Environment, btx *bolt.Tx) *Tx {
	return &Tx{env: env, btx: btx}
}

// Writable reports whether this transaction may mutate the database.
func (t *Tx) Writable() bool { return t.btx.Writable() }

// stageNode records that d → value was durably written within this
// transaction's bbolt transaction, pending promotion to the shared
// node cache once (and only once) the transaction commits.
func (t *Tx) stageNode(d digest.Hash, value []byte) {
	if t.pending == nil {
		t.pending = make(map[digest.Hash][]byte)
	}
	t.pending[d] = value
}

// pendingNode returns a node staged earlier in this same transaction,
// letting a read-your-own-write lookup bypass both the durable store
// and the shared cache without prematurely marking the node as
// cached before the transaction's fate is known.
func (t *Tx) pendingNode(d digest.Hash) ([]byte, bool) {
	v, ok := t.pending[d]
	return v, ok
}

// Bucket returns a generic kv.Store over the given bucket name, creating
// it if the transaction is writable and it does not yet exist.
func (t *Tx) Bucket(name []byte) kv.Store {
	b := t.btx.Bucket(name)
	if b == nil && t.btx.Writable() {
		b, _ = t.btx.CreateBucketIfNotExists(name)
	}
	return kv.NewStore(b)
}

// TrieStore returns the content-addressed trie-node store scoped to
// this transaction.
func (t *Tx) TrieStore() *TrieStore {
	return &TrieStore{store: t.Bucket(trieBucketName), env: t.env, tx: t}
}

// ProtocolDataStore returns the protocol-version-keyed store scoped to
// this transaction.
func (t *Tx) ProtocolDataStore() *ProtocolDataStore {
	return &ProtocolDataStore{store: t.Bucket(protocolDataBucketName)}
}
