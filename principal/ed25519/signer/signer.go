package signer

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/multiformats/go-multibase"
	"github.com/multiformats/go-multicodec"
	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/verifier"
	"github.com/seed-hypermedia/go-hmblob/principal/multiformat"
)

// Code is the multicodec tag used when formatting a seed.
const Code = uint64(multicodec.Ed25519Priv)
const Name = verifier.Name

// SeedSize is the size of a raw Ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// KeyPair is an Ed25519 key pair backed by a raw 32 byte seed. The seed is
// exposed so it can be persisted in encrypted storage.
type KeyPair struct {
	seed      []byte
	priv      ed25519.PrivateKey
	principal principal.Principal
}

// Generate creates a key pair from a random seed.
func Generate() (*KeyPair, error) {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("generating Ed25519 seed: %w", err)
	}
	return FromSeed(seed)
}

// FromSeed restores a key pair from a stored 32 byte seed.
func FromSeed(seed []byte) (*KeyPair, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("invalid seed length: %d wanted: %d", len(seed), SeedSize)
	}
	s := make([]byte, SeedSize)
	copy(s, seed)
	priv := ed25519.NewKeyFromSeed(s)
	return &KeyPair{
		seed:      s,
		priv:      priv,
		principal: principal.FromEd25519(priv.Public().(ed25519.PublicKey)),
	}, nil
}

// Parse decodes a key pair from a multibase string produced by [Format].
func Parse(str string) (*KeyPair, error) {
	_, b, err := multibase.Decode(str)
	if err != nil {
		return nil, fmt.Errorf("decoding multibase string: %w", err)
	}
	return Decode(b)
}

// Decode decodes a key pair from multicodec tagged seed bytes.
func Decode(b []byte) (*KeyPair, error) {
	seed, err := multiformat.UntagWith(Code, b, 0)
	if err != nil {
		return nil, fmt.Errorf("reading private key codec: %w", err)
	}
	return FromSeed(seed)
}

// Encode returns the seed tagged with the Ed25519 private key multicodec.
func Encode(kp *KeyPair) []byte {
	return multiformat.TagWith(Code, kp.seed)
}

// Format encodes the key pair seed as a base64pad multibase string.
func Format(kp *KeyPair) (string, error) {
	return multibase.Encode(multibase.Base64pad, Encode(kp))
}

// Seed returns a copy of the raw private key seed.
func (kp *KeyPair) Seed() []byte {
	s := make([]byte, SeedSize)
	copy(s, kp.seed)
	return s
}

// PublicKey returns the raw 32 byte public key.
func (kp *KeyPair) PublicKey() []byte {
	return kp.principal[len(kp.principal)-principal.KeySize:]
}

func (kp *KeyPair) Principal() principal.Principal {
	return kp.principal
}

func (kp *KeyPair) Sign(ctx context.Context, data []byte) (signature.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return signature.Signature(ed25519.Sign(kp.priv, data)), nil
}

func (kp *KeyPair) Verify(data []byte, sig signature.Signature) bool {
	return verifier.Verify(kp.principal, data, sig)
}

// Raw returns the standard library private key.
func (kp *KeyPair) Raw() ed25519.PrivateKey {
	return kp.priv
}

var _ principal.Signer = (*KeyPair)(nil)
var _ principal.Verifier = (*KeyPair)(nil)
