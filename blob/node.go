package blob

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// fields reads typed values out of a map node. The first failure sticks and
// is reported by err, so a reader can pull several fields and check once.
type fields struct {
	n   datamodel.Node
	err error
}

func (f *fields) lookup(key string, required bool) datamodel.Node {
	if f.err != nil {
		return nil
	}
	v, err := f.n.LookupByString(key)
	if err != nil || v.IsAbsent() || v.IsNull() {
		if required {
			f.err = fmt.Errorf("missing field %q", key)
		}
		return nil
	}
	return v
}

func (f *fields) fail(key string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("field %q: %w", key, err)
	}
}

func (f *fields) str(key string) string {
	v := f.lookup(key, true)
	if v == nil {
		return ""
	}
	s, err := v.AsString()
	if err != nil {
		f.fail(key, err)
	}
	return s
}

func (f *fields) optStr(key string) *string {
	v := f.lookup(key, false)
	if v == nil {
		return nil
	}
	s, err := v.AsString()
	if err != nil {
		f.fail(key, err)
		return nil
	}
	return &s
}

func (f *fields) bytes(key string, required bool) []byte {
	v := f.lookup(key, required)
	if v == nil {
		return nil
	}
	b, err := v.AsBytes()
	if err != nil {
		f.fail(key, err)
	}
	return b
}

func (f *fields) principal(key string, required bool) principal.Principal {
	return principal.Principal(f.bytes(key, required))
}

func (f *fields) int(key string) int64 {
	v := f.lookup(key, true)
	if v == nil {
		return 0
	}
	i, err := v.AsInt()
	if err != nil {
		f.fail(key, err)
	}
	return i
}

func (f *fields) link(key string, required bool) cid.Cid {
	v := f.lookup(key, required)
	if v == nil {
		return cid.Undef
	}
	l, err := v.AsLink()
	if err != nil {
		f.fail(key, err)
		return cid.Undef
	}
	cl, ok := l.(cidlink.Link)
	if !ok {
		f.fail(key, fmt.Errorf("unsupported link type: %T", l))
		return cid.Undef
	}
	return cl.Cid
}

func (f *fields) list(key string, required bool) []datamodel.Node {
	v := f.lookup(key, required)
	if v == nil {
		return nil
	}
	if v.Kind() != datamodel.Kind_List {
		f.fail(key, fmt.Errorf("expected list, got %s", v.Kind()))
		return nil
	}
	items := make([]datamodel.Node, 0, v.Length())
	it := v.ListIterator()
	for !it.Done() {
		_, item, err := it.Next()
		if err != nil {
			f.fail(key, err)
			return nil
		}
		items = append(items, item)
	}
	return items
}

// toAny converts a data model node into plain Go values.
func toAny(n datamodel.Node) (any, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return nil, nil
	case datamodel.Kind_Bool:
		return n.AsBool()
	case datamodel.Kind_Int:
		return n.AsInt()
	case datamodel.Kind_Float:
		return n.AsFloat()
	case datamodel.Kind_String:
		return n.AsString()
	case datamodel.Kind_Bytes:
		return n.AsBytes()
	case datamodel.Kind_Link:
		l, err := n.AsLink()
		if err != nil {
			return nil, err
		}
		if cl, ok := l.(cidlink.Link); ok {
			return cl.Cid, nil
		}
		return l, nil
	case datamodel.Kind_List:
		out := make([]any, 0, n.Length())
		it := n.ListIterator()
		for !it.Done() {
			_, v, err := it.Next()
			if err != nil {
				return nil, err
			}
			av, err := toAny(v)
			if err != nil {
				return nil, err
			}
			out = append(out, av)
		}
		return out, nil
	case datamodel.Kind_Map:
		out := make(map[string]any, n.Length())
		it := n.MapIterator()
		for !it.Done() {
			k, v, err := it.Next()
			if err != nil {
				return nil, err
			}
			ks, err := k.AsString()
			if err != nil {
				return nil, err
			}
			av, err := toAny(v)
			if err != nil {
				return nil, err
			}
			out[ks] = av
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported kind: %s", n.Kind())
}

// fromAny returns an assembler for plain Go values. It panics on unsupported
// types, which qp.Build* turns into an error.
func fromAny(v any) qp.Assemble {
	switch v := v.(type) {
	case nil:
		return qp.Null()
	case bool:
		return qp.Bool(v)
	case int:
		return qp.Int(int64(v))
	case int32:
		return qp.Int(int64(v))
	case int64:
		return qp.Int(v)
	case uint32:
		return qp.Int(int64(v))
	case float32:
		return qp.Float(float64(v))
	case float64:
		return qp.Float(v)
	case string:
		return qp.String(v)
	case []byte:
		return qp.Bytes(v)
	case cid.Cid:
		return qp.Link(cidlink.Link{Cid: v})
	case datamodel.Node:
		return qp.Node(v)
	case []any:
		return qp.List(int64(len(v)), func(la datamodel.ListAssembler) {
			for _, item := range v {
				qp.ListEntry(la, fromAny(item))
			}
		})
	case []string:
		return qp.List(int64(len(v)), func(la datamodel.ListAssembler) {
			for _, item := range v {
				qp.ListEntry(la, qp.String(item))
			}
		})
	case map[string]any:
		return qp.Map(int64(len(v)), func(ma datamodel.MapAssembler) {
			for k, item := range v {
				qp.MapEntry(ma, k, fromAny(item))
			}
		})
	case map[string]string:
		return qp.Map(int64(len(v)), func(ma datamodel.MapAssembler) {
			for k, item := range v {
				qp.MapEntry(ma, k, qp.String(item))
			}
		})
	}
	panic(fmt.Errorf("unsupported attribute value type: %T", v))
}
