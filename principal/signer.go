package principal

import (
	"context"

	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
)

// Signer signs data on behalf of a principal. Implementations may hold the
// raw key material or delegate to a platform key that never leaves its key
// store, so signing is a blocking operation and takes a context.
type Signer interface {
	Principal() Principal
	Sign(ctx context.Context, data []byte) (signature.Signature, error)
}

// Verifier verifies signatures made by a principal.
type Verifier interface {
	Principal() Principal
	Verify(data []byte, sig signature.Signature) bool
}
