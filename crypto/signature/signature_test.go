package signature

import (
	"testing"

	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestSignature(t *testing.T) {
	t.Run("zero placeholder", func(t *testing.T) {
		z := Zero()
		require.Len(t, z, 64)
		require.True(t, z.IsZero())
	})

	t.Run("decode", func(t *testing.T) {
		raw := helpers.RandomBytes(Size)
		s, err := Decode(raw)
		require.NoError(t, err)
		require.Equal(t, raw, s.Bytes())
		require.False(t, s.IsZero())

		raw[0] ^= 0xff
		require.NotEqual(t, raw[0], s[0])
	})

	t.Run("decode wrong size", func(t *testing.T) {
		_, err := Decode(helpers.RandomBytes(10))
		require.Error(t, err)
		require.Equal(t, "invalid signature length: 10 wanted: 64", err.Error())
	})
}
