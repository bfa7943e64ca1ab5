package comment

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/seed-hypermedia/go-hmblob/blob"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/hmid"
	"github.com/seed-hypermedia/go-hmblob/testing/fixtures"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers/printer"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string {
	return &s
}

func paragraph(id, text string, children ...BlockNode) BlockNode {
	return BlockNode{Block: Block{ID: id, Type: "Paragraph", Text: strp(text)}, Children: children}
}

func fixedClock() time.Time {
	return time.UnixMilli(1700000000123)
}

func decodeComment(t *testing.T, data []byte) *blob.Comment {
	t.Helper()
	printer.PrintBlob(t, data, 0)
	require.True(t, blob.VerifyBytes(data))
	nd, err := cbor.DecodeNode(data)
	require.NoError(t, err)
	b, err := blob.FromIPLD(nd)
	require.NoError(t, err)
	c, ok := b.(*blob.Comment)
	require.True(t, ok)
	return c
}

func testInput() Input {
	return Input{
		DocID:      hmid.New(fixtures.Alice.Principal().String(), "notes", "today"),
		DocVersion: helpers.RandomCID().String() + "." + helpers.RandomCID().String(),
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("signed comment on a document", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{paragraph("b1", "hello")}

		out, err := Create(ctx, in, fixtures.Bob, WithClock(fixedClock))
		require.NoError(t, err)
		require.Len(t, out.Blobs, 1)
		require.Nil(t, out.Blobs[0].CID)

		c := decodeComment(t, out.Blobs[0].Data)
		require.Equal(t, fixtures.Bob.Principal(), c.Signer)
		require.Equal(t, fixtures.Alice.Principal(), c.Space)
		require.Equal(t, "/notes/today", c.Path)
		require.Equal(t, int64(1700000000123), c.Ts)
		require.Len(t, c.Version, 2)
		require.False(t, c.ReplyParent.Defined())
		require.False(t, c.ThreadRoot.Defined())
		require.Len(t, c.Body, 1)
		require.Equal(t, "hello", *c.Body[0].Text)
	})

	t.Run("reply chain", func(t *testing.T) {
		parent, root := helpers.RandomCID(), helpers.RandomCID()
		in := testInput()
		in.Content = []BlockNode{paragraph("b1", "agreed")}
		in.ReplyCommentVersion = parent.String()
		in.RootReplyCommentVersion = root.String()

		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		c := decodeComment(t, out.Blobs[0].Data)
		require.Equal(t, parent, c.ReplyParent)
		require.Equal(t, root, c.ThreadRoot)
	})

	t.Run("trailing empty blocks are trimmed", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{
			paragraph("b1", "first"),
			{Block: Block{ID: "b2", Type: "Heading"}},
			paragraph("b3", "last"),
			paragraph("b4", ""),
			{Block: Block{ID: "b5", Type: "Image", Text: strp("caption")}},
		}
		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		c := decodeComment(t, out.Blobs[0].Data)

		var ids []string
		for _, b := range c.Body {
			ids = append(ids, b.ID)
		}
		require.Equal(t, []string{"b1", "b2", "b3"}, ids)
		require.Equal(t, "", *c.Body[1].Text)
	})

	t.Run("empty paragraphs are dropped with their children", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{
			paragraph("b1", "", paragraph("b2", "nested")),
			paragraph("b3", "kept"),
		}
		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		c := decodeComment(t, out.Blobs[0].Data)
		require.Len(t, c.Body, 1)
		require.Equal(t, "b3", c.Body[0].ID)
	})

	t.Run("quote wraps content in an embed", func(t *testing.T) {
		in := testInput()
		in.QuotingBlockID = "AbCdEfGh"
		in.Content = []BlockNode{paragraph("b1", "quoting this"), paragraph("b2", "")}

		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		c := decodeComment(t, out.Blobs[0].Data)
		require.Len(t, c.Body, 1)

		embed := c.Body[0]
		require.Equal(t, "Embed", embed.Type)
		require.Regexp(t, regexp.MustCompile(`^[A-Za-z0-9]{8}$`), embed.ID)
		require.Equal(t, in.DocID.WithBlock("AbCdEfGh", in.DocVersion).String(), *embed.Link)
		require.Equal(t, "Group", embed.Attributes["childrenType"])
		require.Equal(t, "Content", embed.Attributes["view"])
		require.Len(t, embed.Children, 1)
		require.Equal(t, "b1", embed.Children[0].ID)
	})

	t.Run("attachments follow the comment", func(t *testing.T) {
		att := helpers.RandomRawCID()
		in := testInput()
		in.GetContent = func(ctx context.Context, prepare PrepareAttachments) (Content, error) {
			prepared, err := prepare(ctx, [][]byte{{1, 2, 3}})
			if err != nil {
				return Content{}, err
			}
			require.Empty(t, prepared.Blobs)
			link := "ipfs://" + att.String()
			return Content{
				Blocks: []BlockNode{{Block: Block{ID: "img", Type: "Image", Link: &link}}},
				Blobs:  []Attachment{{CID: att, Data: []byte{1, 2, 3}}},
			}, nil
		}

		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		require.Len(t, out.Blobs, 2)
		require.Nil(t, out.Blobs[0].CID)
		require.Equal(t, att.String(), *out.Blobs[1].CID)
		require.Equal(t, []byte{1, 2, 3}, out.Blobs[1].Data)

		c := decodeComment(t, out.Blobs[0].Data)
		require.Equal(t, "Image", c.Body[0].Type)
	})

	t.Run("content errors propagate", func(t *testing.T) {
		boom := errors.New("boom")
		in := testInput()
		in.GetContent = func(context.Context, PrepareAttachments) (Content, error) {
			return Content{}, boom
		}
		_, err := Create(ctx, in, fixtures.Bob)
		require.ErrorIs(t, err, boom)
	})

	t.Run("unsupported block type", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{{Block: Block{ID: "x", Type: "Table", Text: strp("t")}}}
		_, err := Create(ctx, in, fixtures.Bob)
		require.EqualError(t, err, "Unsupported block type: Table")
	})

	t.Run("unsupported annotation type", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{{Block: Block{
			ID: "x", Type: "Paragraph", Text: strp("t"),
			Annotations: []blob.Annotation{{Type: "Highlight", Starts: []int64{0}, Ends: []int64{1}}},
		}}}
		_, err := Create(ctx, in, fixtures.Bob)
		require.EqualError(t, err, "Unsupported annotation type: Highlight")
	})

	t.Run("invalid version", func(t *testing.T) {
		in := testInput()
		in.DocVersion = "not-a-cid"
		_, err := Create(ctx, in, fixtures.Bob)
		require.Error(t, err)

		in.DocVersion = ""
		_, err = Create(ctx, in, fixtures.Bob)
		require.Error(t, err)
	})

	t.Run("cid v0 versions", func(t *testing.T) {
		v0 := cid.MustParse("QmTgnQBKj7eTV7ohraBCmh1DLwerUd2X9Rxzgf3gyMJbC8")
		in := testInput()
		in.Content = []BlockNode{paragraph("b1", "old doc")}
		in.DocVersion = v0.String()
		in.ReplyCommentVersion = v0.String()

		out, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		c := decodeComment(t, out.Blobs[0].Data)
		require.Equal(t, []cid.Cid{v0}, c.Version)
		require.Equal(t, v0, c.ReplyParent)
	})

	t.Run("space must be base58btc", func(t *testing.T) {
		in := testInput()
		in.DocID.UID = "not multibase"
		_, err := Create(ctx, in, fixtures.Bob)
		require.Error(t, err)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := testInput()
		in.Content = []BlockNode{{Block: Block{ID: "h", Type: "Heading"}}, paragraph("p", "x")}
		_, err := Create(ctx, in, fixtures.Bob)
		require.NoError(t, err)
		require.Nil(t, in.Content[0].Block.Text)
	})
}

func TestIsBlockNodeEmpty(t *testing.T) {
	link := "ipfs://attachment"
	require.True(t, IsBlockNodeEmpty(paragraph("a", "")))
	require.False(t, IsBlockNodeEmpty(paragraph("a", "", paragraph("b", "x"))))
	require.True(t, IsBlockNodeEmpty(BlockNode{Block: Block{Type: "Code"}}))
	require.True(t, IsBlockNodeEmpty(BlockNode{Block: Block{Type: "Video", Text: strp("t")}}))
	require.False(t, IsBlockNodeEmpty(BlockNode{Block: Block{Type: "File", Link: &link}}))
	require.False(t, IsBlockNodeEmpty(BlockNode{Block: Block{Type: "Button"}}))
}
