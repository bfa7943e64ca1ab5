// Package sha256 is the sha2-256 hasher that addresses every blob and binds
// record TSIDs to their creation bytes.
package sha256

import (
	"fmt"

	"github.com/multiformats/go-multicodec"
	"github.com/multiformats/go-multihash"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash"
)

const Code = uint64(multicodec.Sha2_256)

const Size = 32

type hasher struct{}

func (hasher) Code() uint64 {
	return Code
}

func (hasher) Sum(b []byte) (hash.Digest, error) {
	mh, err := multihash.Sum(b, Code, Size)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("hashing: %w", err)
	}
	dec, err := multihash.Decode(mh)
	if err != nil {
		return hash.Digest{}, fmt.Errorf("decoding multihash: %w", err)
	}
	return hash.NewDigest(Code, dec.Digest, mh), nil
}

var Hasher = hasher{}
