package cbor

import (
	"bytes"
	"fmt"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/multiformats/go-multicodec"
	ipldcodec "github.com/seed-hypermedia/go-hmblob/core/ipld/codec"
)

const Code = uint64(multicodec.DagCbor)

// ContentType is the media type of DAG-CBOR request bodies.
const ContentType = "application/cbor"

type codec struct{}

func (codec) Code() uint64 {
	return Code
}

func (codec) EncodeNode(node datamodel.Node) ([]byte, error) {
	return EncodeNode(node)
}

func (codec) DecodeNode(b []byte) (datamodel.Node, error) {
	return DecodeNode(b)
}

// Codec is the canonical DAG-CBOR codec every blob is encoded with.
var Codec = codec{}

var _ ipldcodec.Codec = Codec

// Encode writes a Go value bound to typ as DAG-CBOR.
func Encode(val any, typ schema.Type, opts ...bindnode.Option) ([]byte, error) {
	return ipld.Marshal(dagcbor.Encode, val, typ, opts...)
}

// Decode reads DAG-CBOR bytes into bind, a pointer to a value shaped like typ.
func Decode(b []byte, bind any, typ schema.Type, opts ...bindnode.Option) error {
	_, err := ipld.Unmarshal(b, dagcbor.Decode, bind, typ, opts...)
	return err
}

// EncodeNode writes the canonical DAG-CBOR form of a node. Map keys are sorted
// length first then bytewise and integers always use the integer major type, so
// equal nodes produce identical bytes.
func EncodeNode(node datamodel.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := dagcbor.Encode(node, &buf); err != nil {
		return nil, fmt.Errorf("encoding DAG-CBOR: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeNode reads DAG-CBOR bytes into an untyped node.
func DecodeNode(b []byte) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("decoding DAG-CBOR: %w", err)
	}
	return nb.Build(), nil
}
