package api

import (
	"github.com/ipfs/go-cid"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
)

// EncodePublishBlobs renders a PublishBlobs request body as DAG-CBOR.
func EncodePublishBlobs(in PublishBlobsInput) ([]byte, error) {
	return cbor.Encode(&in, Type("PublishBlobsInput"))
}

// DecodePublishBlobs reads a PublishBlobs request body.
func DecodePublishBlobs(b []byte) (PublishBlobsInput, error) {
	var in PublishBlobsInput
	err := cbor.Decode(b, &in, Type("PublishBlobsInput"))
	return in, err
}

// NewPublishBlob pairs blob bytes with their CID. An undefined CID is left
// for the server to compute.
func NewPublishBlob(c cid.Cid, data []byte) PublishBlob {
	pb := PublishBlob{Data: data}
	if c.Defined() {
		s := c.String()
		pb.CID = &s
	}
	return pb
}
