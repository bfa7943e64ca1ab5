// Package hash abstracts the multihash functions used to address blobs.
package hash

type Hasher interface {
	// Code is the multihash code of the algorithm.
	Code() uint64
	Sum(bytes []byte) (Digest, error)
}

// Digest is a hash output together with its multihash encoding.
type Digest struct {
	code   uint64
	digest []byte
	bytes  []byte
}

func NewDigest(code uint64, digest []byte, bytes []byte) Digest {
	return Digest{code: code, digest: digest, bytes: bytes}
}

func (d Digest) Code() uint64 {
	return d.code
}

func (d Digest) Size() uint64 {
	return uint64(len(d.digest))
}

// Digest is the raw hash output.
func (d Digest) Digest() []byte {
	return d.digest
}

// Bytes is the multihash encoded digest.
func (d Digest) Bytes() []byte {
	return d.bytes
}

// Prefix returns the first n bytes of the raw digest, or all of it when it
// is shorter.
func (d Digest) Prefix(n int) []byte {
	if n > len(d.digest) {
		n = len(d.digest)
	}
	return d.digest[:n]
}
