package muxdb

import (
	"github.com/globalstate/engine/gs"
	"github.com/globalstate/engine/kv"
)

// ProtocolDataStore maps a gs.ProtocolVersion to its serialised
// gs.ProtocolData record.
type ProtocolDataStore struct {
	store kv.Store
}

// Get returns the protocol data stored for v, or kv.ErrNotFound.
func (s *ProtocolDataStore) Get(v gs.ProtocolVersion) (gs.ProtocolData, error) {
	raw, err := s.store.Get(v.Bytes())
	if err != nil {
		return gs.ProtocolData{}, err
	}
	return gs.DecodeProtocolData(raw)
}

// Put stores d for v, overwriting any prior entry for the same version.
func (s *ProtocolDataStore) Put(v gs.ProtocolVersion, d gs.ProtocolData) error {
	return s.store.Put(v.Bytes(), d.Bytes())
}

// IsNotFound reports whether err denotes an absent version.
func (s *ProtocolDataStore) IsNotFound(err error) bool { return s.store.IsNotFound(err) }
