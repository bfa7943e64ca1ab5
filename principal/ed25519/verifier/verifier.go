package verifier

import (
	"crypto/ed25519"
	"fmt"

	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

const Code = principal.Ed25519Code
const Name = "Ed25519"

// Verify checks an Ed25519 signature against the raw key inside an encoded
// principal. It works on raw bytes only, so any blob can be verified no matter
// which signer produced it. Malformed principals or signatures yield false.
func Verify(p principal.Principal, data []byte, sig []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	if !p.Valid() {
		return false
	}
	if len(sig) != signature.Size {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p[len(p)-principal.KeySize:]), data, sig)
}

// Ed25519Verifier is a principal able to verify its own signatures.
type Ed25519Verifier principal.Principal

// Decode validates principal bytes and returns a verifier for them.
func Decode(b []byte) (Ed25519Verifier, error) {
	p, err := principal.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decoding principal: %w", err)
	}
	return Ed25519Verifier(p), nil
}

// Parse decodes a verifier from its principal string.
func Parse(str string) (Ed25519Verifier, error) {
	p, err := principal.Parse(str)
	if err != nil {
		return nil, err
	}
	return Ed25519Verifier(p), nil
}

// FromRaw creates a verifier from a raw 32 byte public key.
func FromRaw(b []byte) (Ed25519Verifier, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid length: %d wanted: %d", len(b), ed25519.PublicKeySize)
	}
	return Ed25519Verifier(principal.FromEd25519(b)), nil
}

func (v Ed25519Verifier) Code() uint64 {
	return Code
}

func (v Ed25519Verifier) Principal() principal.Principal {
	return principal.Principal(v)
}

func (v Ed25519Verifier) Verify(data []byte, sig signature.Signature) bool {
	return Verify(principal.Principal(v), data, sig)
}

// Raw returns the raw public key bytes.
func (v Ed25519Verifier) Raw() []byte {
	return v[len(v)-principal.KeySize:]
}

var _ principal.Verifier = Ed25519Verifier(nil)
