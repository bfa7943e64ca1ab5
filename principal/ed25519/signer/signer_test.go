package signer

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"testing"

	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestGenerateEncodeDecode(t *testing.T) {
	s0, err := Generate()
	require.NoError(t, err)

	fmt.Println(s0.Principal().String())

	s1, err := Decode(Encode(s0))
	require.NoError(t, err)

	require.True(t, s0.Principal().Equal(s1.Principal()))
	require.Equal(t, s0.Seed(), s1.Seed())
}

func TestGenerateFormatParse(t *testing.T) {
	s0, err := Generate()
	require.NoError(t, err)

	str, err := Format(s0)
	require.NoError(t, err)

	fmt.Println(str)

	s1, err := Parse(str)
	require.NoError(t, err)
	require.True(t, s0.Principal().Equal(s1.Principal()))
}

func TestFromSeed(t *testing.T) {
	t.Run("deterministic principal", func(t *testing.T) {
		seed := helpers.RandomBytes(SeedSize)
		a := helpers.Must(FromSeed(seed))
		b := helpers.Must(FromSeed(seed))
		require.Equal(t, a.Principal(), b.Principal())
		require.Equal(t, seed, a.Seed())

		pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)
		require.Equal(t, principal.FromEd25519(pub), a.Principal())
		require.Equal(t, []byte(pub), a.PublicKey())
	})

	t.Run("principal round trip", func(t *testing.T) {
		kp := helpers.Must(Generate())
		p, err := principal.Parse(kp.Principal().String())
		require.NoError(t, err)
		require.Equal(t, kp.Principal(), p)
	})

	t.Run("invalid seed length", func(t *testing.T) {
		_, err := FromSeed(helpers.RandomBytes(31))
		require.Error(t, err)
		require.Equal(t, "invalid seed length: 31 wanted: 32", err.Error())
	})

	t.Run("wrong codec", func(t *testing.T) {
		kp := helpers.Must(Generate())
		_, err := Decode(kp.Principal())
		require.Error(t, err)
	})
}

func TestSign(t *testing.T) {
	s0, err := Generate()
	require.NoError(t, err)

	msg := []byte("testy")
	sig, err := s0.Sign(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	require.True(t, s0.Verify(msg, sig))
	require.Equal(t, ed25519.Sign(s0.Raw(), msg), sig.Bytes())

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s0.Sign(ctx, msg)
		require.ErrorIs(t, err, context.Canceled)
	})
}
