package signature

import (
	"crypto/ed25519"
	"fmt"
)

// Size of an Ed25519 signature.
const Size = ed25519.SignatureSize

// Signature is a raw Ed25519 signature. Unlike multiformat signatures it
// carries no algorithm tag, since blobs only ever hold Ed25519 signatures.
type Signature []byte

// Zero returns the placeholder signature written into a blob while it is being
// signed.
func Zero() Signature {
	return make(Signature, Size)
}

// Decode copies b into a Signature, checking its size.
func Decode(b []byte) (Signature, error) {
	if len(b) != Size {
		return nil, fmt.Errorf("invalid signature length: %d wanted: %d", len(b), Size)
	}
	s := make(Signature, Size)
	copy(s, b)
	return s, nil
}

func (s Signature) Bytes() []byte {
	return s
}

func (s Signature) Size() int {
	return len(s)
}

// IsZero reports whether the signature is the all-zero placeholder.
func (s Signature) IsZero() bool {
	if len(s) != Size {
		return false
	}
	for _, b := range s {
		if b != 0 {
			return false
		}
	}
	return true
}
