package gs

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var errMalformedProtocolData = errors.New("gs: malformed protocol data encoding")

// ProtocolData is the per-protocol-version configuration record stored
// alongside the trie in its own sub-database. It holds whatever
// generation-specific constants a caller needs addressable by version,
// e.g. wasm-cost tables or fee-schedule parameters; the storage core
// treats it as an opaque, length-prefixed blob plus a small set of
// well-known scalar fields.
type ProtocolData struct {
	// WasmCosts is an arbitrary opaque payload, carried verbatim.
	WasmCosts []byte
	// MaxAssociatedKeys bounds the number of keys an account may hold
	// under this protocol version.
	MaxAssociatedKeys uint32
}

// Bytes returns the canonical encoding of d.
func (d ProtocolData) Bytes() []byte {
	b := make([]byte, 4, 8+len(d.WasmCosts))
	binary.BigEndian.PutUint32(b, d.MaxAssociatedKeys)
	lenBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lenBuf, uint32(len(d.WasmCosts)))
	b = append(b, lenBuf...)
	b = append(b, d.WasmCosts...)
	return b
}

// DecodeProtocolData is the inverse of ProtocolData.Bytes.
func DecodeProtocolData(b []byte) (ProtocolData, error) {
	if len(b) < 8 {
		return ProtocolData{}, errMalformedProtocolData
	}
	maxKeys := binary.BigEndian.Uint32(b[0:4])
	n := binary.BigEndian.Uint32(b[4:8])
	rest := b[8:]
	if uint32(len(rest)) != n {
		return ProtocolData{}, errMalformedProtocolData
	}
	costs := make([]byte, n)
	copy(costs, rest)
	return ProtocolData{WasmCosts: costs, MaxAssociatedKeys: maxKeys}, nil
}
