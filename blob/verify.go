package blob

import (
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/crypto/signature"
	"github.com/seed-hypermedia/go-hmblob/principal"
	"github.com/seed-hypermedia/go-hmblob/principal/ed25519/verifier"
)

// Verify reports whether the blob carries a valid signature by its own signer
// over its canonical encoding. It never panics.
func Verify(b Blob) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	nd, err := b.ToIPLD()
	if err != nil {
		return false
	}
	return VerifyNode(nd)
}

// VerifyNode is Verify for a generic decoded blob map. Fields unknown to this
// package are kept, so blobs from newer producers still verify.
func VerifyNode(nd datamodel.Node) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	if nd == nil || nd.Kind() != datamodel.Kind_Map {
		return false
	}
	f := &fields{n: nd}
	signer := principal.Principal(f.bytes("signer", true))
	sig := f.bytes("sig", true)
	if f.err != nil || !signer.Valid() || len(sig) != signature.Size {
		return false
	}

	unsigned, err := buildMap(nd.Length(), func(ma datamodel.MapAssembler) {
		it := nd.MapIterator()
		for !it.Done() {
			k, v, err := it.Next()
			if err != nil {
				panic(err)
			}
			ks, err := k.AsString()
			if err != nil {
				panic(err)
			}
			if ks == "sig" {
				qp.MapEntry(ma, ks, qp.Bytes(signature.Zero()))
				continue
			}
			qp.MapEntry(ma, ks, qp.Node(v))
		}
	})
	if err != nil {
		return false
	}
	data, err := cbor.EncodeNode(unsigned)
	if err != nil {
		return false
	}
	return verifier.Verify(signer, data, sig)
}

// VerifyBytes decodes blob bytes and verifies them with VerifyNode.
func VerifyBytes(data []byte) bool {
	nd, err := cbor.DecodeNode(data)
	if err != nil {
		return false
	}
	return VerifyNode(nd)
}
