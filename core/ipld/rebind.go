package ipld

import (
	"fmt"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

// recovered turns a bindnode panic into an error. Must be deferred.
func recovered(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case error:
		*err = fmt.Errorf("%s: %w", op, v)
	default:
		*err = fmt.Errorf("%s: %v", op, v)
	}
}

// Rebind binds the node to T, which must have the shape bindnode infers for
// typ. Typed nodes are rebound from their representation.
func Rebind[T any](nd datamodel.Node, typ schema.Type, opts ...bindnode.Option) (out T, err error) {
	defer recovered("binding node", &err)

	if tn, ok := nd.(schema.TypedNode); ok {
		nd = tn.Representation()
	}
	nb := bindnode.Prototype(&out, typ, opts...).Representation().NewBuilder()
	if err = nb.AssignNode(nd); err != nil {
		return out, err
	}
	out = *bindnode.Unwrap(nb.Build()).(*T)
	return out, nil
}

// WrapWithRecovery is bindnode.Wrap returning the representation node, with
// panics on a value that does not fit typ reported as errors.
func WrapWithRecovery(ptrVal any, typ schema.Type, opts ...bindnode.Option) (nd datamodel.Node, err error) {
	defer recovered("wrapping value", &err)
	return bindnode.Wrap(ptrVal, typ, opts...).Representation(), nil
}
