package blob

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/seed-hypermedia/go-hmblob/core/ipld"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/block"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash/sha256"
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

// CIDMismatchError reports bytes whose recomputed CID differs from the one
// they were fetched under.
type CIDMismatchError struct {
	failure.NamedWithStackTrace
	Expected cid.Cid
	Got      cid.Cid
}

func (e *CIDMismatchError) Error() string {
	return fmt.Sprintf("CID mismatch: expected %s, got %s", e.Expected, e.Got)
}

func NewCIDMismatchError(expected, got cid.Cid) *CIDMismatchError {
	return &CIDMismatchError{
		NamedWithStackTrace: failure.NamedWithCurrentStackTrace("IntegrityError"),
		Expected:            expected,
		Got:                 got,
	}
}

var _ failure.Failure = (*CIDMismatchError)(nil)

// DecodeNode decodes blob bytes into a generic node after checking that the
// canonical re-encoding of the node addresses to expected.
func DecodeNode(data []byte, expected cid.Cid) (ipld.Node, error) {
	nd, err := cbor.DecodeNode(data)
	if err != nil {
		return nil, err
	}
	blk, err := block.Encode(nd, cbor.Codec, sha256.Hasher)
	if err != nil {
		return nil, err
	}
	got, err := block.CID(blk.Link())
	if err != nil {
		return nil, err
	}
	if !got.Equals(expected) {
		return nil, NewCIDMismatchError(expected, got)
	}
	return nd, nil
}

// Decode decodes and integrity checks blob bytes, then converts them to the
// typed blob named by the type field.
func Decode(data []byte, expected cid.Cid) (Encoded[Blob], error) {
	nd, err := DecodeNode(data, expected)
	if err != nil {
		return Encoded[Blob]{}, err
	}
	b, err := FromIPLD(nd)
	if err != nil {
		return Encoded[Blob]{}, err
	}
	return Encoded[Blob]{CID: expected, Data: data, Decoded: b}, nil
}

// DecodeAs is Decode for callers expecting a particular blob type.
func DecodeAs[T Blob](data []byte, expected cid.Cid) (Encoded[T], error) {
	enc, err := Decode(data, expected)
	if err != nil {
		return Encoded[T]{}, err
	}
	b, ok := enc.Decoded.(T)
	if !ok {
		var zero T
		return Encoded[T]{}, fmt.Errorf("expected %T blob, got %s", zero, enc.Decoded.BlobType())
	}
	return Encoded[T]{CID: enc.CID, Data: enc.Data, Decoded: b}, nil
}
