package api

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/json"
)

// Unwrap reads a superjson response envelope, {"json": ..., "meta": {"values":
// ...}}, and restores the annotated values: dates and bigints become Ints,
// maps serialized as pair lists become maps, and undefined values are
// removed. Bodies without a "json" key are returned as they are.
func Unwrap(r io.Reader) (datamodel.Node, error) {
	doc, err := json.DecodeNode(r)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != datamodel.Kind_Map {
		return doc, nil
	}
	data, err := doc.LookupByString("json")
	if err != nil || data.IsAbsent() {
		return doc, nil
	}

	var anns []annotation
	if meta, err := doc.LookupByString("meta"); err == nil && meta.Kind() == datamodel.Kind_Map {
		if values, err := meta.LookupByString("values"); err == nil && !values.IsNull() {
			if err := flattenAnnotations(values, nil, &anns); err != nil {
				return nil, fmt.Errorf("reading envelope annotations: %w", err)
			}
		}
	}
	if len(anns) == 0 {
		return data, nil
	}

	root := newMutable(data)
	for _, a := range anns {
		root, err = a.apply(root)
		if err != nil {
			return nil, fmt.Errorf("applying %s annotation at %q: %w", a.kind, strings.Join(a.path, "."), err)
		}
	}
	return root.build()
}

type annotation struct {
	path []string
	kind string
}

// flattenAnnotations walks a superjson value tree. A leaf is [type], an inner
// node is [type, {key: tree}], and a record maps dotted paths to trees.
// Children are emitted before their parent, so nested values are restored
// before the value containing them is reshaped.
func flattenAnnotations(tree datamodel.Node, prefix []string, out *[]annotation) error {
	switch tree.Kind() {
	case datamodel.Kind_List:
		if tree.Length() == 0 {
			return nil
		}
		head, err := tree.LookupByIndex(0)
		if err != nil {
			return err
		}
		kind, err := annotationKind(head)
		if err != nil {
			return err
		}
		if tree.Length() > 1 {
			children, err := tree.LookupByIndex(1)
			if err != nil {
				return err
			}
			if children.Kind() == datamodel.Kind_Map {
				if err := flattenRecord(children, prefix, out); err != nil {
					return err
				}
			}
		}
		*out = append(*out, annotation{path: prefix, kind: kind})
		return nil
	case datamodel.Kind_Map:
		return flattenRecord(tree, prefix, out)
	}
	return fmt.Errorf("unexpected annotation tree kind %s", tree.Kind())
}

func flattenRecord(rec datamodel.Node, prefix []string, out *[]annotation) error {
	it := rec.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return err
		}
		ks, err := k.AsString()
		if err != nil {
			return err
		}
		path := append(append([]string{}, prefix...), splitPath(ks)...)
		if err := flattenAnnotations(v, path, out); err != nil {
			return err
		}
	}
	return nil
}

// annotationKind returns the type name of an annotation. Composite
// annotations such as ["class", "Foo"] yield their first element.
func annotationKind(nd datamodel.Node) (string, error) {
	if nd.Kind() == datamodel.Kind_List {
		head, err := nd.LookupByIndex(0)
		if err != nil {
			return "", err
		}
		return head.AsString()
	}
	return nd.AsString()
}

// splitPath splits a dotted path where "\." is a literal dot and "\\" a
// literal backslash.
func splitPath(p string) []string {
	var parts []string
	var cur strings.Builder
	for i := 0; i < len(p); i++ {
		c := p[i]
		switch {
		case c == '\\' && i+1 < len(p) && (p[i+1] == '.' || p[i+1] == '\\'):
			cur.WriteByte(p[i+1])
			i++
		case c == '.':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, cur.String())
}

// mutable is an editable copy of a node that keeps map key order.
type mutable struct {
	kind   datamodel.Kind
	leaf   datamodel.Node
	keys   []string
	fields map[string]*mutable
	items  []*mutable
}

func newMutable(nd datamodel.Node) *mutable {
	m := &mutable{kind: nd.Kind()}
	switch nd.Kind() {
	case datamodel.Kind_Map:
		m.fields = map[string]*mutable{}
		it := nd.MapIterator()
		for !it.Done() {
			k, v, err := it.Next()
			if err != nil {
				break
			}
			ks, err := k.AsString()
			if err != nil {
				continue
			}
			m.keys = append(m.keys, ks)
			m.fields[ks] = newMutable(v)
		}
	case datamodel.Kind_List:
		it := nd.ListIterator()
		for !it.Done() {
			_, v, err := it.Next()
			if err != nil {
				break
			}
			m.items = append(m.items, newMutable(v))
		}
	default:
		m.leaf = nd
	}
	return m
}

func leaf(nd datamodel.Node) *mutable {
	return &mutable{kind: nd.Kind(), leaf: nd}
}

func (m *mutable) child(key string) *mutable {
	switch m.kind {
	case datamodel.Kind_Map:
		return m.fields[key]
	case datamodel.Kind_List:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(m.items) {
			return nil
		}
		return m.items[i]
	}
	return nil
}

func (m *mutable) set(key string, v *mutable) {
	switch m.kind {
	case datamodel.Kind_Map:
		if _, ok := m.fields[key]; !ok {
			m.keys = append(m.keys, key)
		}
		m.fields[key] = v
	case datamodel.Kind_List:
		if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(m.items) {
			m.items[i] = v
		}
	}
}

func (m *mutable) remove(key string) {
	switch m.kind {
	case datamodel.Kind_Map:
		if _, ok := m.fields[key]; !ok {
			return
		}
		delete(m.fields, key)
		for i, k := range m.keys {
			if k == key {
				m.keys = append(m.keys[:i], m.keys[i+1:]...)
				break
			}
		}
	case datamodel.Kind_List:
		m.set(key, leaf(datamodel.Null))
	}
}

func (m *mutable) assembler() qp.Assemble {
	switch m.kind {
	case datamodel.Kind_Map:
		return qp.Map(int64(len(m.keys)), func(ma datamodel.MapAssembler) {
			for _, k := range m.keys {
				qp.MapEntry(ma, k, m.fields[k].assembler())
			}
		})
	case datamodel.Kind_List:
		return qp.List(int64(len(m.items)), func(la datamodel.ListAssembler) {
			for _, it := range m.items {
				qp.ListEntry(la, it.assembler())
			}
		})
	}
	return qp.Node(m.leaf)
}

func (m *mutable) build() (datamodel.Node, error) {
	switch m.kind {
	case datamodel.Kind_Map:
		return qp.BuildMap(basicnode.Prototype.Any, int64(len(m.keys)), func(ma datamodel.MapAssembler) {
			for _, k := range m.keys {
				qp.MapEntry(ma, k, m.fields[k].assembler())
			}
		})
	case datamodel.Kind_List:
		return qp.BuildList(basicnode.Prototype.Any, int64(len(m.items)), func(la datamodel.ListAssembler) {
			for _, it := range m.items {
				qp.ListEntry(la, it.assembler())
			}
		})
	}
	return m.leaf, nil
}

// apply rewrites the value at the annotation path and returns the possibly
// replaced root. Paths that do not resolve are ignored.
func (a annotation) apply(root *mutable) (*mutable, error) {
	if len(a.path) == 0 {
		if a.kind == "undefined" {
			return leaf(datamodel.Null), nil
		}
		return transform(a.kind, root)
	}
	parent := root
	for _, seg := range a.path[:len(a.path)-1] {
		parent = parent.child(seg)
		if parent == nil {
			return root, nil
		}
	}
	key := a.path[len(a.path)-1]
	target := parent.child(key)
	if target == nil {
		return root, nil
	}
	if a.kind == "undefined" {
		parent.remove(key)
		return root, nil
	}
	v, err := transform(a.kind, target)
	if err != nil {
		return nil, err
	}
	parent.set(key, v)
	return root, nil
}

func transform(kind string, m *mutable) (*mutable, error) {
	switch kind {
	case "Date":
		s, err := leafString(m)
		if err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, err
		}
		return leaf(basicnode.NewInt(t.UnixMilli())), nil
	case "bigint":
		s, err := leafString(m)
		if err != nil {
			return nil, err
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return leaf(basicnode.NewInt(i)), nil
	case "number":
		s, err := leafString(m)
		if err != nil {
			return nil, err
		}
		switch s {
		case "NaN":
			return leaf(basicnode.NewFloat(math.NaN())), nil
		case "Infinity":
			return leaf(basicnode.NewFloat(math.Inf(1))), nil
		case "-Infinity":
			return leaf(basicnode.NewFloat(math.Inf(-1))), nil
		}
		return m, nil
	case "map":
		if m.kind != datamodel.Kind_List {
			return nil, fmt.Errorf("expected pair list, got %s", m.kind)
		}
		out := &mutable{kind: datamodel.Kind_Map, fields: map[string]*mutable{}}
		for _, pair := range m.items {
			if pair.kind != datamodel.Kind_List || len(pair.items) != 2 {
				return nil, fmt.Errorf("expected [key, value] pair")
			}
			key, err := mapKey(pair.items[0])
			if err != nil {
				return nil, err
			}
			out.set(key, pair.items[1])
		}
		return out, nil
	}
	// set is already a list; regexp, class, symbol, custom and Error values
	// have no data model counterpart and are left as serialized.
	return m, nil
}

func leafString(m *mutable) (string, error) {
	if m.leaf == nil || m.kind != datamodel.Kind_String {
		return "", fmt.Errorf("expected string, got %s", m.kind)
	}
	return m.leaf.AsString()
}

func mapKey(m *mutable) (string, error) {
	if m.kind == datamodel.Kind_String {
		return m.leaf.AsString()
	}
	nd, err := m.build()
	if err != nil {
		return "", err
	}
	b, err := json.EncodeNode(nd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
