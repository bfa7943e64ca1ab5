// Package opaque implements a signer over a platform Ed25519 key whose private
// half is never exported, such as a key held by an OS key store, an HSM or a
// KMS client implementing [crypto.Signer].
package opaque

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/verifier"
)

// KeyPair signs by delegating to the wrapped platform key. Only the raw public
// key is observable.
type KeyPair struct {
	key       crypto.Signer
	publicKey []byte
	principal principal.Principal
}

// New wraps a platform key. The key's public half must be an Ed25519 key.
func New(key crypto.Signer) (*KeyPair, error) {
	pub, ok := key.Public().(ed25519.PublicKey)
	if !ok {
		return nil, fmt.Errorf("unsupported public key type: %T", key.Public())
	}
	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("invalid public key length: %d wanted: %d", len(pub), ed25519.PublicKeySize)
	}
	raw := make([]byte, len(pub))
	copy(raw, pub)
	return &KeyPair{key: key, publicKey: raw, principal: principal.FromEd25519(raw)}, nil
}

// Generate creates a fresh key pair. The private key is held only inside the
// returned value and there is no accessor for it.
func Generate() (*KeyPair, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generating Ed25519 key: %w", err)
	}
	return New(priv)
}

// PublicKey returns the raw 32 byte public key.
func (kp *KeyPair) PublicKey() []byte {
	return kp.publicKey
}

func (kp *KeyPair) Principal() principal.Principal {
	return kp.principal
}

func (kp *KeyPair) Sign(ctx context.Context, data []byte) (signature.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Ed25519 signs the message itself, never a digest.
	sig, err := kp.key.Sign(rand.Reader, data, crypto.Hash(0))
	if err != nil {
		return nil, fmt.Errorf("signing with platform key: %w", err)
	}
	return signature.Decode(sig)
}

func (kp *KeyPair) Verify(data []byte, sig signature.Signature) bool {
	return verifier.Verify(kp.principal, data, sig)
}

var _ principal.Signer = (*KeyPair)(nil)
var _ principal.Verifier = (*KeyPair)(nil)
