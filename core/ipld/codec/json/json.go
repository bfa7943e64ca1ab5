// Package json reads and writes the plain JSON bodies of the HTTP API.
package json

import (
	"bytes"
	"fmt"
	"io"

	ipldcodec "github.com/ipld/go-ipld-prime/codec"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	ipldjson "github.com/ipld/go-ipld-prime/codec/json"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

// ContentType is the media type of JSON response bodies.
const ContentType = "application/json"

// DecodeNode reads plain JSON into an untyped node. Unlike DAG-JSON, maps keyed
// by "/" are left alone, since HTTP API responses are not IPLD data.
func DecodeNode(r io.Reader) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := ipldjson.Decode(nb, r); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return nb.Build(), nil
}

// EncodeNode writes a node as compact plain JSON, keeping map entries in
// iteration order.
func EncodeNode(node datamodel.Node) ([]byte, error) {
	var buf bytes.Buffer
	opts := dagjson.EncodeOptions{
		EncodeLinks: false,
		EncodeBytes: false,
		MapSortMode: ipldcodec.MapSortMode_None,
	}
	if err := opts.Encode(node, &buf); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return buf.Bytes(), nil
}
