package opaque

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"io"
	"testing"

	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/signer"
	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/verifier"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
	"github.com/stretchr/testify/require"
)

type failingKey struct {
	crypto.Signer
}

func (failingKey) Sign(io.Reader, []byte, crypto.SignerOpts) ([]byte, error) {
	return nil, errors.New("key store locked")
}

func TestKeyPair(t *testing.T) {
	t.Run("sign and verify", func(t *testing.T) {
		kp := helpers.Must(Generate())
		msg := []byte("testy")
		sig, err := kp.Sign(context.Background(), msg)
		require.NoError(t, err)
		require.True(t, kp.Verify(msg, sig))
		require.True(t, verifier.Verify(kp.Principal(), msg, sig))
	})

	t.Run("same principal as seed backed signer", func(t *testing.T) {
		seed := helpers.RandomBytes(signer.SeedSize)
		seeded := helpers.Must(signer.FromSeed(seed))
		opq := helpers.Must(New(ed25519.NewKeyFromSeed(seed)))
		require.Equal(t, seeded.Principal(), opq.Principal())
		require.Equal(t, seeded.PublicKey(), opq.PublicKey())

		msg := []byte{1, 2, 3}
		a := helpers.Must(seeded.Sign(context.Background(), msg))
		b := helpers.Must(opq.Sign(context.Background(), msg))
		require.Equal(t, a, b)
	})

	t.Run("rejects non ed25519 key", func(t *testing.T) {
		k, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		_, err = New(k)
		require.Error(t, err)
	})

	t.Run("platform failure propagates", func(t *testing.T) {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		kp := helpers.Must(New(failingKey{priv}))
		_, err = kp.Sign(context.Background(), []byte("x"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "key store locked")
	})

	var _ principal.Signer = helpers.Must(Generate())
}
