package principal

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/seed-hypermedia/go-hmblob/principal/multiformat"
)

// Ed25519Code is the multicodec of an Ed25519 public key.
const Ed25519Code = uint64(multicodec.Ed25519Pub)

// KeySize is the size of a raw Ed25519 public key.
const KeySize = 32

// Size is the size of an encoded Ed25519 principal (varint tag + raw key).
var Size = len(multiformat.TagWith(Ed25519Code, nil)) + KeySize

var (
	ErrInvalidEncoding   = errors.New("Invalid principal encoding")
	ErrInvalidLength     = errors.New("Invalid principal length")
	ErrInvalidMulticodec = errors.New("Invalid principal multicodec: expected Ed25519 (0xed01)")
)

// Principal is a packed public key: a multicodec varint tag followed by the
// raw key bytes.
type Principal []byte

// FromEd25519 creates a principal from a raw 32 byte Ed25519 public key.
func FromEd25519(pub []byte) Principal {
	return Principal(multiformat.TagWith(Ed25519Code, pub))
}

// Parse decodes a principal from its base58btc multibase string.
func Parse(str string) (Principal, error) {
	enc, b, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEncoding, err)
	}
	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("%w: unexpected multibase encoding %q", ErrInvalidEncoding, string(rune(enc)))
	}
	return Decode(b)
}

// Decode validates raw principal bytes and returns a copy.
func Decode(b []byte) (Principal, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidLength, Size, len(b))
	}
	if !multiformat.HasTag(Ed25519Code, b) {
		return nil, ErrInvalidMulticodec
	}
	p := make(Principal, len(b))
	copy(p, b)
	return p, nil
}

// String encodes the principal as a base58btc multibase string (starts with
// 'z').
func (p Principal) String() string {
	s, _ := multibase.Encode(multibase.Base58BTC, p)
	return s
}

func (p Principal) Bytes() []byte {
	return p
}

func (p Principal) Equal(other Principal) bool {
	return bytes.Equal(p, other)
}

// RawKey returns the raw public key without the multicodec tag.
func (p Principal) RawKey() ([]byte, error) {
	return multiformat.UntagWith(Ed25519Code, p, 0)
}

// Valid reports whether the principal is a well formed Ed25519 principal.
func (p Principal) Valid() bool {
	return len(p) == Size && multiformat.HasTag(Ed25519Code, p)
}
