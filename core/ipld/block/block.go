package block

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/hash"
)

type Block interface {
	Link() ipld.Link
	Bytes() []byte
}

type block struct {
	link  ipld.Link
	bytes []byte
}

func (b *block) Link() ipld.Link {
	return b.link
}

func (b *block) Bytes() []byte {
	return b.bytes
}

func NewBlock(link ipld.Link, bytes []byte) Block {
	return &block{link, bytes}
}

// Encode encodes a node with the given codec and addresses the bytes with a
// CIDv1 built from the codec code and the hasher's multihash.
func Encode(node ipld.Node, enc codec.NodeEncoder, hasher hash.Hasher) (Block, error) {
	b, err := enc.EncodeNode(node)
	if err != nil {
		return nil, err
	}
	c, err := Sum(b, enc.Code(), hasher)
	if err != nil {
		return nil, err
	}
	return NewBlock(cidlink.Link{Cid: c}, b), nil
}

// Sum computes the CIDv1 of already encoded bytes.
func Sum(b []byte, code uint64, hasher hash.Hasher) (cid.Cid, error) {
	d, err := hasher.Sum(b)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing block: %w", err)
	}
	return cid.NewCidV1(code, d.Bytes()), nil
}

// CID extracts the CID from a link, failing for non CID links.
func CID(link ipld.Link) (cid.Cid, error) {
	cl, ok := link.(cidlink.Link)
	if !ok {
		return cid.Undef, fmt.Errorf("unsupported link type: %T", link)
	}
	return cl.Cid, nil
}
