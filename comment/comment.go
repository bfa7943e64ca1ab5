// Package comment builds signed Comment blobs from editor content.
package comment

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multibase"
	"github.com/seed-hypermedia/go-hmblob/api"
	"github.com/seed-hypermedia/go-hmblob/blob"
	"github.com/seed-hypermedia/go-hmblob/core/schema"
	"github.com/seed-hypermedia/go-hmblob/hmid"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// Block is a content block as an editor produces it. Text and Link may be
// unset.
type Block struct {
	ID          string
	Type        string
	Text        *string
	Link        *string
	Annotations []blob.Annotation
	Attributes  map[string]any
}

type BlockNode struct {
	Block    Block
	Children []BlockNode
}

// Attachment is a binary blob referenced from the comment content, such as an
// image.
type Attachment struct {
	CID  cid.Cid
	Data []byte
}

type PreparedAttachments struct {
	Blobs []Attachment
	// CIDs holds the CID of each prepared binary, in input order.
	CIDs []cid.Cid
}

// PrepareAttachments turns raw binaries into attachment blobs.
type PrepareAttachments func(ctx context.Context, binaries [][]byte) (PreparedAttachments, error)

type Content struct {
	Blocks []BlockNode
	Blobs  []Attachment
}

// Input describes a comment on a document version. Content is taken from
// GetContent when it is set, otherwise from Content and Blobs.
type Input struct {
	DocID      hmid.ID
	DocVersion string
	// ReplyCommentVersion and RootReplyCommentVersion are CID strings of the
	// comment replied to and of the thread root.
	ReplyCommentVersion     string
	RootReplyCommentVersion string
	// QuotingBlockID wraps the content in an embed of this block.
	QuotingBlockID string

	Content []BlockNode
	Blobs   []Attachment

	GetContent         func(ctx context.Context, prepare PrepareAttachments) (Content, error)
	PrepareAttachments PrepareAttachments
}

type config struct {
	clock func() time.Time
}

type Option func(*config)

// WithClock sets the time source used for the comment timestamp.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

func noAttachments(context.Context, [][]byte) (PreparedAttachments, error) {
	return PreparedAttachments{}, nil
}

// Create builds, signs and encodes a comment and returns it ready to publish,
// followed by its attachments.
func Create(ctx context.Context, in Input, s principal.Signer, opts ...Option) (api.PublishBlobsInput, error) {
	cfg := config{clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	content, attachments, err := resolveContent(ctx, in)
	if err != nil {
		return api.PublishBlobsInput{}, err
	}
	content = normalize(content)
	content = wrapQuoted(trimTrailingEmptyBlocks(content), in)

	body, err := toPublishable(content)
	if err != nil {
		return api.PublishBlobsInput{}, err
	}
	c, err := newComment(in, body, cfg.clock().UnixMilli())
	if err != nil {
		return api.PublishBlobsInput{}, err
	}
	enc, err := blob.SignAndEncode(ctx, s, c)
	if err != nil {
		return api.PublishBlobsInput{}, err
	}

	out := api.PublishBlobsInput{Blobs: []api.PublishBlob{{Data: enc.Data}}}
	for _, a := range attachments {
		out.Blobs = append(out.Blobs, api.NewPublishBlob(a.CID, a.Data))
	}
	return out, nil
}

func resolveContent(ctx context.Context, in Input) ([]BlockNode, []Attachment, error) {
	if in.GetContent == nil {
		return in.Content, in.Blobs, nil
	}
	prepare := in.PrepareAttachments
	if prepare == nil {
		prepare = noAttachments
	}
	res, err := in.GetContent(ctx, prepare)
	if err != nil {
		return nil, nil, err
	}
	return res.Blocks, res.Blobs, nil
}

// Versions may be CIDv0 or CIDv1.
var versionReader = schema.ParseLink()

func readVersion(s string) (cid.Cid, error) {
	c, f := versionReader.Read(s)
	if f != nil {
		return cid.Undef, f
	}
	return c, nil
}

func newComment(in Input, body []blob.Block, ts int64) (*blob.Comment, error) {
	enc, space, err := multibase.Decode(in.DocID.UID)
	if err != nil {
		return nil, fmt.Errorf("decoding space %q: %w", in.DocID.UID, err)
	}
	if enc != multibase.Base58BTC {
		return nil, fmt.Errorf("decoding space %q: not base58btc", in.DocID.UID)
	}
	c := &blob.Comment{
		Base:  blob.Base{Type: blob.TypeComment, Ts: ts},
		Body:  body,
		Space: principal.Principal(space),
		Path:  hmid.QueryPath(in.DocID.Path),
	}
	if in.DocVersion == "" {
		return nil, errors.New("document version is required")
	}
	// Versions travel as text but are signed as links.
	for _, v := range strings.Split(in.DocVersion, ".") {
		vc, err := readVersion(v)
		if err != nil {
			return nil, fmt.Errorf("parsing document version: %w", err)
		}
		c.Version = append(c.Version, vc)
	}
	if in.ReplyCommentVersion != "" {
		if c.ReplyParent, err = readVersion(in.ReplyCommentVersion); err != nil {
			return nil, fmt.Errorf("parsing reply parent: %w", err)
		}
	}
	if in.RootReplyCommentVersion != "" {
		if c.ThreadRoot, err = readVersion(in.RootReplyCommentVersion); err != nil {
			return nil, fmt.Errorf("parsing thread root: %w", err)
		}
	}
	return c, nil
}

// normalize copies the tree, setting unset text to "".
func normalize(nodes []BlockNode) []BlockNode {
	if nodes == nil {
		return nil
	}
	out := make([]BlockNode, len(nodes))
	for i, n := range nodes {
		b := n.Block
		if b.Text == nil {
			empty := ""
			b.Text = &empty
		}
		out[i] = BlockNode{Block: b, Children: normalize(n.Children)}
	}
	return out
}

func isEmpty(s *string) bool {
	return s == nil || *s == ""
}

// IsBlockNodeEmpty reports whether a block carries nothing worth publishing.
// Blocks with children are never empty.
func IsBlockNodeEmpty(n BlockNode) bool {
	if len(n.Children) > 0 {
		return false
	}
	switch n.Block.Type {
	case "Paragraph", "Heading", "Math", "Code":
		return isEmpty(n.Block.Text)
	case "Image", "File", "Video", "Embed", "WebEmbed":
		return isEmpty(n.Block.Link)
	}
	return false
}

func trimTrailingEmptyBlocks(nodes []BlockNode) []BlockNode {
	end := len(nodes)
	for end > 0 && IsBlockNodeEmpty(nodes[end-1]) {
		end--
	}
	return nodes[:end]
}

const blockIDChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func newBlockID() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = blockIDChars[rand.IntN(len(blockIDChars))]
	}
	return string(b)
}

func wrapQuoted(content []BlockNode, in Input) []BlockNode {
	if in.QuotingBlockID == "" {
		return content
	}
	link := in.DocID.WithBlock(in.QuotingBlockID, in.DocVersion).String()
	empty := ""
	return []BlockNode{{
		Block: Block{
			ID:          newBlockID(),
			Type:        "Embed",
			Text:        &empty,
			Link:        &link,
			Annotations: []blob.Annotation{},
			Attributes: map[string]any{
				"childrenType": "Group",
				"view":         "Content",
			},
		},
		Children: content,
	}}
}

func toPublishable(nodes []BlockNode) ([]blob.Block, error) {
	out := make([]blob.Block, 0, len(nodes))
	for _, n := range nodes {
		b, ok, err := blockToPublishable(n)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// blockToPublishable converts an editor block. Paragraphs without text are
// dropped together with their children.
func blockToPublishable(n BlockNode) (blob.Block, bool, error) {
	b := n.Block
	if !blob.IsPublishableBlockType(b.Type) {
		return blob.Block{}, false, fmt.Errorf("Unsupported block type: %s", b.Type)
	}
	if b.Type == "Paragraph" && isEmpty(b.Text) {
		return blob.Block{}, false, nil
	}
	for _, a := range b.Annotations {
		if !blob.IsPublishableAnnotationType(a.Type) {
			return blob.Block{}, false, fmt.Errorf("Unsupported annotation type: %s", a.Type)
		}
	}
	children, err := toPublishable(n.Children)
	if err != nil {
		return blob.Block{}, false, err
	}
	return blob.Block{
		ID:          b.ID,
		Type:        b.Type,
		Text:        b.Text,
		Link:        b.Link,
		Annotations: b.Annotations,
		Attributes:  b.Attributes,
		Children:    children,
	}, true, nil
}
