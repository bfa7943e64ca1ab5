package blob

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/seed-hypermedia/go-hmblob/testing/fixtures"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("self signed omits account", func(t *testing.T) {
		enc, err := NewProfile(ctx, fixtures.Alice, ProfileOptions{
			Name:    "Alice",
			Account: fixtures.Alice.Principal(),
		}, ts)
		require.NoError(t, err)
		require.Nil(t, enc.Decoded.Account)
		require.False(t, hasKey(t, enc.Data, "account"))
		require.False(t, hasKey(t, enc.Data, "avatar"))
		require.False(t, hasKey(t, enc.Data, "description"))
		require.True(t, hasKey(t, enc.Data, "name"))
	})

	t.Run("delegated keeps account", func(t *testing.T) {
		enc, err := NewProfile(ctx, fixtures.Alice, ProfileOptions{
			Name:    "Bob's agent",
			Avatar:  strp("ipfs://bafkqaaa"),
			Account: fixtures.Bob.Principal(),
		}, ts)
		require.NoError(t, err)
		require.True(t, hasKey(t, enc.Data, "account"))
		require.True(t, hasKey(t, enc.Data, "avatar"))
		require.True(t, Verify(enc.Decoded))
	})

	t.Run("alias has no name or description", func(t *testing.T) {
		enc, err := NewProfileAlias(ctx, fixtures.Alice, fixtures.Bob.Principal(), ts)
		require.NoError(t, err)
		require.True(t, enc.Decoded.IsAlias())
		require.False(t, hasKey(t, enc.Data, "name"))
		require.False(t, hasKey(t, enc.Data, "description"))
		require.True(t, hasKey(t, enc.Data, "alias"))
		require.True(t, Verify(enc.Decoded))
	})
}

func TestCapability(t *testing.T) {
	ctx := context.Background()

	t.Run("minimal", func(t *testing.T) {
		enc, err := NewCapability(ctx, fixtures.Alice, fixtures.Bob.Principal(), RoleWriter, ts, CapabilityOptions{})
		require.NoError(t, err)
		require.True(t, Verify(enc.Decoded))
		for _, k := range []string{"path", "label", "audience"} {
			require.False(t, hasKey(t, enc.Data, k), k)
		}

		dec, err := DecodeAs[*Capability](enc.Data, enc.CID)
		require.NoError(t, err)
		require.Equal(t, RoleWriter, dec.Decoded.Role)
		require.Equal(t, fixtures.Bob.Principal(), dec.Decoded.Delegate)
	})

	t.Run("scoped", func(t *testing.T) {
		enc, err := NewCapability(ctx, fixtures.Alice, fixtures.Bob.Principal(), RoleAgent, ts, CapabilityOptions{
			Path:     strp("/docs"),
			Label:    strp("laptop"),
			Audience: fixtures.Service.Principal(),
		})
		require.NoError(t, err)
		require.True(t, VerifyBytes(enc.Data))
		dec, err := DecodeAs[*Capability](enc.Data, enc.CID)
		require.NoError(t, err)
		require.Equal(t, "/docs", *dec.Decoded.Path)
		require.Equal(t, fixtures.Service.Principal(), dec.Decoded.Audience)
	})

	t.Run("role is not validated", func(t *testing.T) {
		enc, err := NewCapability(ctx, fixtures.Alice, fixtures.Bob.Principal(), Role("OWNER"), ts, CapabilityOptions{})
		require.NoError(t, err)
		require.True(t, Verify(enc.Decoded))
	})
}

func TestComment(t *testing.T) {
	ctx := context.Background()
	version := []cid.Cid{helpers.RandomCID(), helpers.RandomCID()}

	newComment := func(body []Block) *Comment {
		return &Comment{
			Base:    Base{Type: TypeComment, Ts: ts},
			Body:    body,
			Space:   fixtures.Bob.Principal(),
			Path:    "/notes",
			Version: version,
		}
	}

	t.Run("publishable body", func(t *testing.T) {
		body := []Block{
			{
				ID:   "aaaaaaaa",
				Type: "Paragraph",
				Text: strp("hello world"),
				Annotations: []Annotation{
					{Type: "Bold", Starts: []int64{0}, Ends: []int64{5}},
					{Type: "Link", Starts: []int64{6}, Ends: []int64{11}},
				},
				Attributes: map[string]any{"childrenType": "Group"},
				Children: []Block{
					{ID: "bbbbbbbb", Type: "Image", Text: strp(""), Link: strp("ipfs://bafy")},
				},
			},
			{ID: "cccccccc", Type: "Video", Text: strp("ignored"), Link: strp("ipfs://vid")},
			{ID: "dddddddd", Type: "File"},
		}
		enc, err := SignAndEncode(ctx, fixtures.Alice, newComment(body))
		require.NoError(t, err)
		require.True(t, Verify(enc.Decoded))
		require.True(t, VerifyBytes(enc.Data))
		require.False(t, hasKey(t, enc.Data, "replyParent"))
		require.False(t, hasKey(t, enc.Data, "threadRoot"))

		dec, err := DecodeAs[*Comment](enc.Data, enc.CID)
		require.NoError(t, err)
		c := dec.Decoded
		require.Equal(t, version, c.Version)
		require.Len(t, c.Body, 3)

		p := c.Body[0]
		require.Equal(t, "Group", p.Attributes["childrenType"])
		require.Len(t, p.Annotations, 2)
		require.Equal(t, "", *p.Annotations[1].Link)
		require.Nil(t, p.Annotations[0].Link)
		require.Equal(t, "ipfs://bafy", *p.Children[0].Link)

		require.Equal(t, "", *c.Body[1].Text)
		require.Nil(t, c.Body[1].Annotations)
		require.Nil(t, c.Body[2].Text)
		require.Nil(t, c.Body[2].Link)
		require.Empty(t, c.Body[2].Children)

		require.True(t, Verify(c))
	})

	t.Run("reply chain", func(t *testing.T) {
		cm := newComment(nil)
		cm.ReplyParent = helpers.RandomCID()
		cm.ThreadRoot = helpers.RandomCID()
		enc, err := SignAndEncode(ctx, fixtures.Alice, cm)
		require.NoError(t, err)
		dec, err := DecodeAs[*Comment](enc.Data, enc.CID)
		require.NoError(t, err)
		require.Equal(t, cm.ReplyParent, dec.Decoded.ReplyParent)
		require.Equal(t, cm.ThreadRoot, dec.Decoded.ThreadRoot)
	})

	t.Run("unsupported block type", func(t *testing.T) {
		_, err := SignAndEncode(ctx, fixtures.Alice, newComment([]Block{{ID: "x", Type: "Table"}}))
		require.ErrorContains(t, err, "Unsupported block type: Table")
	})

	t.Run("unsupported annotation type", func(t *testing.T) {
		_, err := SignAndEncode(ctx, fixtures.Alice, newComment([]Block{{
			ID:          "x",
			Type:        "Paragraph",
			Text:        strp("x"),
			Annotations: []Annotation{{Type: "Highlight"}},
		}}))
		require.ErrorContains(t, err, "Unsupported annotation type: Highlight")
	})
}

func TestContact(t *testing.T) {
	ctx := context.Background()

	t.Run("tombstone", func(t *testing.T) {
		id := "z1234"
		c := &Contact{Base: Base{Type: TypeContact, Ts: ts}, ID: &id}
		enc, err := SignAndEncode(ctx, fixtures.Alice, c)
		require.NoError(t, err)
		require.True(t, enc.Decoded.IsTombstone())
		require.False(t, hasKey(t, enc.Data, "subject"))
		require.False(t, hasKey(t, enc.Data, "name"))
		require.Equal(t, TSID(id), enc.TSID())
	})

	t.Run("create derives tsid", func(t *testing.T) {
		name := "Bob"
		c := &Contact{Base: Base{Type: TypeContact, Ts: ts}, Subject: fixtures.Bob.Principal(), Name: &name}
		enc, err := SignAndEncode(ctx, fixtures.Alice, c)
		require.NoError(t, err)
		require.False(t, enc.Decoded.IsTombstone())
		require.False(t, hasKey(t, enc.Data, "id"))
		require.Equal(t, NewTSID(ts, enc.Data), enc.TSID())
	})
}

func TestTSID(t *testing.T) {
	data := []byte("creation blob")

	t.Run("layout", func(t *testing.T) {
		id := NewTSID(ts, data)
		require.True(t, strings.HasPrefix(id.String(), "z"))
		require.GreaterOrEqual(t, len(id)-1, 13)
		require.LessOrEqual(t, len(id)-1, 15)

		at, prefix, err := id.Parse()
		require.NoError(t, err)
		require.Equal(t, ts, at.UnixMilli())
		require.Len(t, prefix, 4)
	})

	t.Run("low 48 bits only", func(t *testing.T) {
		high := ts | int64(1)<<50
		require.Equal(t, NewTSID(ts, data), NewTSID(high, data))
	})

	t.Run("bound to content", func(t *testing.T) {
		require.NotEqual(t, NewTSID(ts, data), NewTSID(ts, []byte("other")))
	})

	t.Run("orders by time", func(t *testing.T) {
		a, _, err := NewTSID(ts, data).Parse()
		require.NoError(t, err)
		b, _, err := NewTSID(ts+time.Hour.Milliseconds(), data).Parse()
		require.NoError(t, err)
		require.True(t, a.Before(b))
	})

	t.Run("invalid", func(t *testing.T) {
		_, _, err := TSID("not a tsid").Parse()
		require.Error(t, err)
		_, _, err = TSID("z111").Parse()
		require.Error(t, err)
	})

	t.Run("record id", func(t *testing.T) {
		id := NewTSID(ts, data)
		rid := RecordID(fixtures.Alice.Principal(), id)
		authority, got, err := SplitRecordID(rid)
		require.NoError(t, err)
		require.Equal(t, fixtures.Alice.Principal().String(), authority)
		require.Equal(t, id, got)

		account := fixtures.Alice.Principal().String()
		for _, bad := range []string{"", "no-separator", "a/b/c", "/", account + "/", "/" + string(id)} {
			_, _, err := SplitRecordID(bad)
			require.ErrorIs(t, err, ErrInvalidContactID, bad)
		}
	})
}
