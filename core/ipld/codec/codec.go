// Package codec names the node level codec operations blocks are built with.
package codec

import (
	"github.com/ipld/go-ipld-prime/datamodel"
)

// NodeEncoder encodes untyped data model nodes.
type NodeEncoder interface {
	Code() uint64
	EncodeNode(node datamodel.Node) ([]byte, error)
}

// NodeDecoder decodes bytes into untyped data model nodes.
type NodeDecoder interface {
	Code() uint64
	DecodeNode(bytes []byte) (datamodel.Node, error)
}

type Codec interface {
	NodeEncoder
	NodeDecoder
}
