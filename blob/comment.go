package blob

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// Comment is a discussion entry on a document version.
type Comment struct {
	Base
	Body []Block
	// Space is the account owning the commented document.
	Space principal.Principal
	Path  string
	// Version lists the change CIDs of the commented document version.
	Version     []cid.Cid
	ReplyParent cid.Cid
	ThreadRoot  cid.Cid
}

func (c *Comment) ToIPLD() (datamodel.Node, error) {
	return buildMap(10, func(ma datamodel.MapAssembler) {
		c.Base.assemble(ma)
		qp.MapEntry(ma, "body", blocksAssembler(c.Body))
		qp.MapEntry(ma, "space", qp.Bytes(c.Space))
		qp.MapEntry(ma, "path", qp.String(c.Path))
		qp.MapEntry(ma, "version", qp.List(int64(len(c.Version)), func(la datamodel.ListAssembler) {
			for _, v := range c.Version {
				qp.ListEntry(la, qp.Link(cidlink.Link{Cid: v}))
			}
		}))
		if c.ReplyParent.Defined() {
			qp.MapEntry(ma, "replyParent", qp.Link(cidlink.Link{Cid: c.ReplyParent}))
		}
		if c.ThreadRoot.Defined() {
			qp.MapEntry(ma, "threadRoot", qp.Link(cidlink.Link{Cid: c.ThreadRoot}))
		}
	})
}

func readComment(f *fields) *Comment {
	c := &Comment{}
	readBase(f, &c.Base)
	for _, nd := range f.list("body", false) {
		b, err := readBlock(nd)
		if err != nil {
			f.fail("body", err)
			break
		}
		c.Body = append(c.Body, b)
	}
	c.Space = f.principal("space", true)
	c.Path = f.str("path")
	for _, nd := range f.list("version", true) {
		l, err := nd.AsLink()
		if err != nil {
			f.fail("version", err)
			break
		}
		cl, ok := l.(cidlink.Link)
		if !ok {
			f.fail("version", fmt.Errorf("unsupported link type: %T", l))
			break
		}
		c.Version = append(c.Version, cl.Cid)
	}
	c.ReplyParent = f.link("replyParent", false)
	c.ThreadRoot = f.link("threadRoot", false)
	return c
}

// Block is a content block in the form it is signed in.
type Block struct {
	ID          string
	Type        string
	Text        *string
	Link        *string
	Annotations []Annotation
	// Attributes are written as top level keys of the block map.
	Attributes map[string]any
	Children   []Block
}

type Annotation struct {
	Type   string
	Starts []int64
	Ends   []int64
	Link   *string
}

type blockShape struct {
	text        bool
	link        bool
	annotations bool
}

// blockShapes lists which keys each publishable block type writes.
var blockShapes = map[string]blockShape{
	"Paragraph": {text: true, annotations: true},
	"Heading":   {text: true, annotations: true},
	"Math":      {text: true, annotations: true},
	"Code":      {text: true, annotations: true},
	"Image":     {text: true, link: true, annotations: true},
	"Video":     {text: true, link: true},
	"File":      {link: true},
	"Button":    {text: true, link: true},
	"Embed":     {link: true},
	"WebEmbed":  {link: true},
}

// IsPublishableBlockType reports whether blocks of type typ can be signed.
func IsPublishableBlockType(typ string) bool {
	_, ok := blockShapes[typ]
	return ok
}

var plainAnnotations = map[string]bool{
	"Bold":      true,
	"Italic":    true,
	"Underline": true,
	"Strike":    true,
	"Code":      true,
}

var linkAnnotations = map[string]bool{
	"Link":  true,
	"Embed": true,
}

// IsPublishableAnnotationType reports whether annotations of type typ can be
// signed.
func IsPublishableAnnotationType(typ string) bool {
	return plainAnnotations[typ] || linkAnnotations[typ]
}

func blocksAssembler(blocks []Block) qp.Assemble {
	return qp.List(int64(len(blocks)), func(la datamodel.ListAssembler) {
		for _, b := range blocks {
			qp.ListEntry(la, b.assembler())
		}
	})
}

func (b Block) assembler() qp.Assemble {
	shape, ok := blockShapes[b.Type]
	if !ok {
		panic(fmt.Errorf("Unsupported block type: %s", b.Type))
	}
	// Attributes may shadow every key but children, so entries are collected
	// before assembly.
	entries := map[string]qp.Assemble{
		"id":   qp.String(b.ID),
		"type": qp.String(b.Type),
	}
	if shape.text {
		text := ""
		if b.Text != nil && b.Type != "Video" {
			text = *b.Text
		}
		entries["text"] = qp.String(text)
	}
	if shape.link && b.Link != nil {
		entries["link"] = qp.String(*b.Link)
	}
	if shape.annotations {
		entries["annotations"] = qp.List(int64(len(b.Annotations)), func(la datamodel.ListAssembler) {
			for _, a := range b.Annotations {
				qp.ListEntry(la, a.assembler())
			}
		})
	}
	for k, v := range b.Attributes {
		entries[k] = fromAny(v)
	}
	entries["children"] = blocksAssembler(b.Children)
	return qp.Map(int64(len(entries)), func(ma datamodel.MapAssembler) {
		for k, v := range entries {
			qp.MapEntry(ma, k, v)
		}
	})
}

func (a Annotation) assembler() qp.Assemble {
	if !IsPublishableAnnotationType(a.Type) {
		panic(fmt.Errorf("Unsupported annotation type: %s", a.Type))
	}
	ints := func(vs []int64) qp.Assemble {
		return qp.List(int64(len(vs)), func(la datamodel.ListAssembler) {
			for _, v := range vs {
				qp.ListEntry(la, qp.Int(v))
			}
		})
	}
	return qp.Map(4, func(ma datamodel.MapAssembler) {
		qp.MapEntry(ma, "type", qp.String(a.Type))
		qp.MapEntry(ma, "starts", ints(a.Starts))
		qp.MapEntry(ma, "ends", ints(a.Ends))
		if linkAnnotations[a.Type] {
			link := ""
			if a.Link != nil {
				link = *a.Link
			}
			qp.MapEntry(ma, "link", qp.String(link))
		}
	})
}

var blockKeys = map[string]bool{
	"id":          true,
	"type":        true,
	"text":        true,
	"link":        true,
	"annotations": true,
	"children":    true,
}

func readBlock(nd datamodel.Node) (Block, error) {
	if nd.Kind() != datamodel.Kind_Map {
		return Block{}, fmt.Errorf("block must be a map, got %s", nd.Kind())
	}
	f := &fields{n: nd}
	b := Block{
		ID:   f.str("id"),
		Type: f.str("type"),
		Text: f.optStr("text"),
		Link: f.optStr("link"),
	}
	for _, an := range f.list("annotations", false) {
		a, err := readAnnotation(an)
		if err != nil {
			return Block{}, err
		}
		b.Annotations = append(b.Annotations, a)
	}
	for _, cn := range f.list("children", false) {
		child, err := readBlock(cn)
		if err != nil {
			return Block{}, err
		}
		b.Children = append(b.Children, child)
	}
	if f.err != nil {
		return Block{}, f.err
	}
	it := nd.MapIterator()
	for !it.Done() {
		k, v, err := it.Next()
		if err != nil {
			return Block{}, err
		}
		ks, err := k.AsString()
		if err != nil {
			return Block{}, err
		}
		if blockKeys[ks] {
			continue
		}
		av, err := toAny(v)
		if err != nil {
			return Block{}, fmt.Errorf("attribute %q: %w", ks, err)
		}
		if b.Attributes == nil {
			b.Attributes = map[string]any{}
		}
		b.Attributes[ks] = av
	}
	return b, nil
}

func readAnnotation(nd datamodel.Node) (Annotation, error) {
	f := &fields{n: nd}
	a := Annotation{
		Type: f.str("type"),
		Link: f.optStr("link"),
	}
	a.Starts = readInts(f, "starts")
	a.Ends = readInts(f, "ends")
	return a, f.err
}

func readInts(f *fields, key string) []int64 {
	items := f.list(key, false)
	out := make([]int64, 0, len(items))
	for _, nd := range items {
		v, err := nd.AsInt()
		if err != nil {
			f.fail(key, err)
			return nil
		}
		out = append(out, v)
	}
	return out
}
