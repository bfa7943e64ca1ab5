package fixtures

import (
	"bytes"

	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/signer"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
)

// Deterministic signers. Each seed is a single repeated byte so principals are
// stable across test runs.

var Alice = helpers.Must(signer.FromSeed(bytes.Repeat([]byte{0xa1}, signer.SeedSize)))

var Bob = helpers.Must(signer.FromSeed(bytes.Repeat([]byte{0xb0}, signer.SeedSize)))

var Mallory = helpers.Must(signer.FromSeed(bytes.Repeat([]byte{0x3a}, signer.SeedSize)))

var Service = helpers.Must(signer.FromSeed(bytes.Repeat([]byte{0x5e}, signer.SeedSize)))
