// Package blob implements the signed, content addressed records of the
// Hypermedia network: Profile, Capability, Comment and Contact.
//
// Every blob is a DAG-CBOR map carrying type, signer, sig and ts. The signed
// bytes are the canonical encoding of the blob with sig set to 64 zero bytes.
// Absent optional fields are never written, not even as null.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/seed-hypermedia/go-hmblob/core/ipld"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/block"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash/sha256"
	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// Blob type discriminators.
const (
	TypeProfile    = "Profile"
	TypeCapability = "Capability"
	TypeComment    = "Comment"
	TypeContact    = "Contact"
)

// Base holds the fields shared by every blob.
type Base struct {
	Type   string
	Signer principal.Principal
	Sig    signature.Signature
	// Ts is the creation time in milliseconds since the Unix epoch.
	Ts int64
}

func (b *Base) base() *Base {
	return b
}

func (b *Base) BlobType() string {
	return b.Type
}

// Time returns Ts as a time value.
func (b *Base) Time() time.Time {
	return time.UnixMilli(b.Ts)
}

func (b *Base) assemble(ma datamodel.MapAssembler) {
	qp.MapEntry(ma, "type", qp.String(b.Type))
	qp.MapEntry(ma, "signer", qp.Bytes(b.Signer))
	sig := b.Sig
	if sig == nil {
		sig = signature.Zero()
	}
	qp.MapEntry(ma, "sig", qp.Bytes(sig))
	qp.MapEntry(ma, "ts", qp.Int(b.Ts))
}

func readBase(f *fields, b *Base) {
	b.Type = f.str("type")
	b.Signer = f.principal("signer", true)
	b.Sig = signature.Signature(f.bytes("sig", true))
	b.Ts = f.int("ts")
}

// Blob is implemented by *Profile, *Capability, *Comment and *Contact.
type Blob interface {
	ipld.Builder
	BlobType() string
	base() *Base
}

// Encoded is a blob together with its canonical bytes and CID.
type Encoded[T Blob] struct {
	CID     cid.Cid
	Data    []byte
	Decoded T
}

func (e Encoded[T]) Link() ipld.Link {
	return cidlink.Link{Cid: e.CID}
}

func (e Encoded[T]) Bytes() []byte {
	return e.Data
}

// TSID returns the record identifier of the blob. Contact updates and
// tombstones restate the identifier of the record they modify, every other
// blob derives one from its timestamp and bytes.
func (e Encoded[T]) TSID() TSID {
	if c, ok := any(e.Decoded).(*Contact); ok && c.ID != nil && *c.ID != "" {
		return TSID(*c.ID)
	}
	return NewTSID(e.Decoded.base().Ts, e.Data)
}

var _ block.Block = Encoded[Blob]{}

func buildMap(size int64, fn func(ma datamodel.MapAssembler)) (datamodel.Node, error) {
	return qp.BuildMap(basicnode.Prototype.Any, size, fn)
}

// Sign fills in the signature of b in place and returns it. When b has no
// signer yet it is set to the signer's principal.
func Sign[T Blob](ctx context.Context, s principal.Signer, b T) (T, error) {
	base := b.base()
	if len(base.Signer) == 0 {
		base.Signer = s.Principal()
	}
	base.Sig = signature.Zero()
	nd, err := b.ToIPLD()
	if err != nil {
		return b, fmt.Errorf("building %s blob: %w", b.BlobType(), err)
	}
	data, err := cbor.EncodeNode(nd)
	if err != nil {
		return b, err
	}
	sig, err := s.Sign(ctx, data)
	if err != nil {
		return b, err
	}
	base.Sig = sig
	return b, nil
}

// Encode produces the canonical bytes and CID of a blob.
func Encode[T Blob](b T) (Encoded[T], error) {
	nd, err := b.ToIPLD()
	if err != nil {
		return Encoded[T]{}, fmt.Errorf("building %s blob: %w", b.BlobType(), err)
	}
	blk, err := block.Encode(nd, cbor.Codec, sha256.Hasher)
	if err != nil {
		return Encoded[T]{}, err
	}
	c, err := block.CID(blk.Link())
	if err != nil {
		return Encoded[T]{}, err
	}
	return Encoded[T]{CID: c, Data: blk.Bytes(), Decoded: b}, nil
}

// SignAndEncode signs b and encodes the result.
func SignAndEncode[T Blob](ctx context.Context, s principal.Signer, b T) (Encoded[T], error) {
	signed, err := Sign(ctx, s, b)
	if err != nil {
		return Encoded[T]{}, err
	}
	return Encode(signed)
}

// FromIPLD converts a generic blob map into its typed form, chosen by the
// type field.
func FromIPLD(nd datamodel.Node) (Blob, error) {
	if nd.Kind() != datamodel.Kind_Map {
		return nil, fmt.Errorf("blob must be a map, got %s", nd.Kind())
	}
	f := &fields{n: nd}
	typ := f.str("type")
	if f.err != nil {
		return nil, f.err
	}
	var b Blob
	switch typ {
	case TypeProfile:
		b = readProfile(f)
	case TypeCapability:
		b = readCapability(f)
	case TypeComment:
		b = readComment(f)
	case TypeContact:
		b = readContact(f)
	default:
		return nil, fmt.Errorf("unknown blob type: %q", typ)
	}
	if f.err != nil {
		return nil, fmt.Errorf("reading %s blob: %w", typ, f.err)
	}
	return b, nil
}
