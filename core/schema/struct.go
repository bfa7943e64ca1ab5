package schema

import (
	"fmt"

	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
	"github.com/seed-hypermedia/go-hmblob/core/ipld"
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

type strukt[T any] struct {
	typ  schema.Type
	opts []bindnode.Option
}

func (s strukt[T]) Read(input any) (T, failure.Failure) {
	if o, ok := input.(T); ok {
		return o, nil
	}
	if o, ok := input.(*T); ok && o != nil {
		return *o, nil
	}

	var bind T
	node, ok := input.(ipld.Node)
	if !ok {
		builder, ok := input.(ipld.Builder)
		if !ok {
			return bind, NewSchemaError(fmt.Sprintf("unexpected input: %T is not an IPLD node", input))
		}
		n, err := builder.ToIPLD()
		if err != nil {
			return bind, NewSchemaError(err.Error())
		}
		node = n
	}

	bind, err := ipld.Bind[T](node, s.typ, s.opts...)
	if err != nil {
		return bind, NewSchemaError(err.Error())
	}

	return bind, nil
}

// Struct reads IPLD nodes into T according to the schema type. Keys the
// schema does not know are ignored, so readers keep working when a service
// starts sending new fields. Values that already are a T pass through.
func Struct[T any](typ schema.Type, opts ...bindnode.Option) Reader[any, T] {
	return strukt[T]{typ, opts}
}
