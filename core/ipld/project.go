package ipld

import (
	"fmt"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	"github.com/ipld/go-ipld-prime/schema"
)

// Project reshapes an untyped node so it can be bound to typ. Map keys that
// the schema does not name are dropped, and null values in fields that are
// not nullable are treated as absent. Everything else is left for the binder
// to validate, so missing required fields or kind mismatches still fail.
//
// This lets data produced by a service that adds fields over time be read with
// a fixed schema.
func Project(nd datamodel.Node, typ schema.Type) (datamodel.Node, error) {
	if nd == nil || nd.IsNull() || nd.IsAbsent() {
		return nd, nil
	}

	switch t := typ.(type) {
	case *schema.TypeStruct:
		if nd.Kind() != datamodel.Kind_Map {
			return nd, nil
		}
		type entry struct {
			key   string
			value datamodel.Node
		}
		rep, renamed := t.RepresentationStrategy().(schema.StructRepresentation_Map)
		var entries []entry
		for _, f := range t.Fields() {
			key := f.Name()
			if renamed {
				key = rep.GetFieldKey(f)
			}
			v, err := nd.LookupByString(key)
			if err != nil || v.IsAbsent() {
				continue
			}
			if v.IsNull() && !f.IsNullable() {
				continue
			}
			pv, err := Project(v, f.Type())
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", key, err)
			}
			entries = append(entries, entry{key, pv})
		}
		return qp.BuildMap(basicnode.Prototype.Any, int64(len(entries)), func(ma datamodel.MapAssembler) {
			for _, e := range entries {
				qp.MapEntry(ma, e.key, qp.Node(e.value))
			}
		})

	case *schema.TypeList:
		if nd.Kind() != datamodel.Kind_List {
			return nd, nil
		}
		values := make([]datamodel.Node, 0, nd.Length())
		it := nd.ListIterator()
		for !it.Done() {
			idx, v, err := it.Next()
			if err != nil {
				return nil, err
			}
			pv, err := Project(v, t.ValueType())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", idx, err)
			}
			values = append(values, pv)
		}
		return qp.BuildList(basicnode.Prototype.Any, int64(len(values)), func(la datamodel.ListAssembler) {
			for _, v := range values {
				qp.ListEntry(la, qp.Node(v))
			}
		})

	case *schema.TypeMap:
		if nd.Kind() != datamodel.Kind_Map {
			return nd, nil
		}
		keys := make([]string, 0, nd.Length())
		values := make([]datamodel.Node, 0, nd.Length())
		it := nd.MapIterator()
		for !it.Done() {
			k, v, err := it.Next()
			if err != nil {
				return nil, err
			}
			ks, err := k.AsString()
			if err != nil {
				return nil, err
			}
			pv, err := Project(v, t.ValueType())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", ks, err)
			}
			keys = append(keys, ks)
			values = append(values, pv)
		}
		return qp.BuildMap(basicnode.Prototype.Any, int64(len(keys)), func(ma datamodel.MapAssembler) {
			for i, k := range keys {
				qp.MapEntry(ma, k, qp.Node(values[i]))
			}
		})
	}

	return nd, nil
}

// Bind projects the node onto the schema type and rebinds it to T.
func Bind[T any](nd datamodel.Node, typ schema.Type, opts ...bindnode.Option) (T, error) {
	pnd, err := Project(nd, typ)
	if err != nil {
		var zero T
		return zero, err
	}
	return Rebind[T](pnd, typ, opts...)
}
