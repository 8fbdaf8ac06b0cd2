package gs

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

var errMalformedProtocolVersion = errors.New("gs: malformed protocol version encoding")

// ProtocolVersion identifies a schema generation of stored-value types,
// semver-shaped (major.minor.patch). It is the key into the protocol
// data store and lets stored-value schema evolve independently of the
// trie's content-addressed node format.
type ProtocolVersion struct {
	Major uint32
	Minor uint32
	Patch uint32
}

// NewProtocolVersion constructs a ProtocolVersion.
func NewProtocolVersion(major, minor, patch uint32) ProtocolVersion {
	return ProtocolVersion{Major: major, Minor: minor, Patch: patch}
}

// String renders the version as "major.minor.patch".
func (v ProtocolVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bytes returns the canonical 12-byte big-endian encoding used as the
// protocol-data store key.
func (v ProtocolVersion) Bytes() []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[0:4], v.Major)
	binary.BigEndian.PutUint32(b[4:8], v.Minor)
	binary.BigEndian.PutUint32(b[8:12], v.Patch)
	return b
}

// Compare orders versions lexicographically by (major, minor, patch).
func (v ProtocolVersion) Compare(o ProtocolVersion) int {
	switch {
	case v.Major != o.Major:
		return cmpUint32(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpUint32(v.Minor, o.Minor)
	default:
		return cmpUint32(v.Patch, o.Patch)
	}
}

func cmpUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// DecodeProtocolVersion is the inverse of ProtocolVersion.Bytes.
func DecodeProtocolVersion(b []byte) (ProtocolVersion, error) {
	if len(b) != 12 {
		return ProtocolVersion{}, errMalformedProtocolVersion
	}
	return ProtocolVersion{
		Major: binary.BigEndian.Uint32(b[0:4]),
		Minor: binary.BigEndian.Uint32(b[4:8]),
		Patch: binary.BigEndian.Uint32(b[8:12]),
	}, nil
}
