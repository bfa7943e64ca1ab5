package ipld

import (
	"github.com/ipld/go-ipld-prime"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/block"
)

type Link = ipld.Link
type Block = block.Block
type Node = ipld.Node

// Builder is a value that can be converted to an IPLD node.
type Builder interface {
	ToIPLD() (Node, error)
}
