package schema

import (
	"bytes"
	"fmt"

	"github.com/ipfs/go-cid"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/multiformats/go-base32"
	mh "github.com/multiformats/go-multihash"
	"github.com/seed-hypermedia/go-hmblob/core/ipld"
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

type linkConfig struct {
	version *uint64
	codec   *uint64
	alg     *uint64
	digest  []byte
}

type LinkOption func(*linkConfig)

// WithVersion requires the CID version.
func WithVersion(version uint64) LinkOption {
	return func(lc *linkConfig) {
		lc.version = &version
	}
}

// WithCodec requires the CID content codec, for example cid.DagCBOR for blobs
// and cid.Raw for attachments.
func WithCodec(codec uint64) LinkOption {
	return func(lc *linkConfig) {
		lc.codec = &codec
	}
}

// WithAlg requires the multihash function.
func WithAlg(code uint64) LinkOption {
	return func(lc *linkConfig) {
		lc.alg = &code
	}
}

// WithDigest requires the exact hash digest, pinning the link to known bytes.
func WithDigest(digest []byte) LinkOption {
	return func(lc *linkConfig) {
		lc.digest = digest
	}
}

func newLinkConfig(opts []LinkOption) *linkConfig {
	lc := &linkConfig{}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

func (lc *linkConfig) check(c cid.Cid) failure.Failure {
	if !c.Defined() {
		return NewSchemaError("Expected a CID but got an undefined one")
	}
	p := c.Prefix()
	if lc.version != nil && p.Version != *lc.version {
		return NewSchemaError(fmt.Sprintf("Expected CID version %d instead of %d", *lc.version, p.Version))
	}
	if lc.codec != nil && p.Codec != *lc.codec {
		return NewSchemaError(fmt.Sprintf("Expected CID with 0x%x codec instead of 0x%x", *lc.codec, p.Codec))
	}
	if lc.alg != nil && p.MhType != *lc.alg {
		return NewSchemaError(fmt.Sprintf("Expected CID with 0x%x hashing algorithm instead of 0x%x", *lc.alg, p.MhType))
	}
	if lc.digest != nil {
		dec, err := mh.Decode(c.Hash())
		if err != nil {
			return NewSchemaError(err.Error())
		}
		if !bytes.Equal(dec.Digest, lc.digest) {
			return NewSchemaError(fmt.Sprintf("Expected CID with %s digest instead of %s",
				base32.StdEncoding.EncodeToString(lc.digest), base32.StdEncoding.EncodeToString(dec.Digest)))
		}
	}
	return nil
}

type linkReader struct {
	lc *linkConfig
}

func (lr linkReader) Read(input any) (cid.Cid, failure.Failure) {
	var c cid.Cid
	switch v := input.(type) {
	case cid.Cid:
		c = v
	case cidlink.Link:
		c = v.Cid
	case string:
		return parsedLinkReader(lr).Read(v)
	case ipld.Node:
		l, err := v.AsLink()
		if err != nil {
			return cid.Undef, NewSchemaError(err.Error())
		}
		cl, ok := l.(cidlink.Link)
		if !ok {
			return cid.Undef, NewSchemaError(fmt.Sprintf("Unsupported link type %T", l))
		}
		c = cl.Cid
	default:
		return cid.Undef, NewSchemaError(fmt.Sprintf("Expected a CID but got %T", input))
	}
	if f := lr.lc.check(c); f != nil {
		return cid.Undef, f
	}
	return c, nil
}

// Link reads a CID from a cid.Cid, an IPLD link node or its string form.
func Link(opts ...LinkOption) Reader[any, cid.Cid] {
	return linkReader{newLinkConfig(opts)}
}

type parsedLinkReader struct {
	lc *linkConfig
}

func (pr parsedLinkReader) Read(input string) (cid.Cid, failure.Failure) {
	c, err := cid.Decode(input)
	if err != nil {
		return cid.Undef, NewSchemaError(fmt.Sprintf("Invalid CID %q: %s", input, err))
	}
	if f := pr.lc.check(c); f != nil {
		return cid.Undef, f
	}
	return c, nil
}

// ParseLink reads a CID from its string form.
func ParseLink(opts ...LinkOption) Reader[string, cid.Cid] {
	return parsedLinkReader{newLinkConfig(opts)}
}
