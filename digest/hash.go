// Package digest provides the fixed-length cryptographic digest used
// throughout the storage core as both content identifier and trie address.
package digest

import (
	"encoding/hex"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Size is the length in bytes of a Hash.
const Size = 32

// Hash is a 32-byte Blake2b-256 digest.
type Hash [Size]byte

// Zero is the all-zero sentinel digest ("no parent").
var Zero Hash

// Sum returns the Blake2b-256 digest of data.
func Sum(data []byte) Hash {
	var h Hash
	sum := blake2b.Sum256(data)
	copy(h[:], sum[:])
	return h
}

// Bytes returns a copy of the digest's bytes.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == Zero
}

// String returns the "0x"-prefixed hex encoding of h.
func (h Hash) String() string {
	return "0x" + hex.EncodeToString(h[:])
}

// Compare returns -1, 0 or 1 as h is bytewise less than, equal to, or
// greater than other.
func (h Hash) Compare(other Hash) int {
	for i := range h {
		if h[i] != other[i] {
			if h[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// FromBytes builds a Hash from a 32-byte slice.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, errors.Errorf("digest: expected %d bytes, got %d", Size, len(b))
	}
	copy(h[:], b)
	return h, nil
}

// Parse decodes a "0x"-prefixed or bare hex string into a Hash.
func Parse(s string) (Hash, error) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, errors.Wrap(err, "digest: parse hex")
	}
	return FromBytes(b)
}

// MustParse is like Parse but panics on error. Intended for constants
// and tests.
func MustParse(s string) Hash {
	h, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return h
}

// MarshalJSON implements json.Marshaler.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
