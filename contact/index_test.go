package contact

import (
	"context"
	"testing"

	"github.com/seed-hypermedia/go-hmblob/blob"
	"github.com/seed-hypermedia/go-hmblob/testing/fixtures"
	"github.com/seed-hypermedia/go-hmblob/testing/helpers/printer"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	ctx := context.Background()
	bob := fixtures.Bob.Principal()

	created, err := Create(ctx, fixtures.Alice, CreateInput{Subject: bob, Name: "Bob"}, ts)
	require.NoError(t, err)
	updated, err := Update(ctx, fixtures.Alice, UpdateInput{RecordID: created.RecordID, Subject: bob, Name: "Robert"}, ts+10)
	require.NoError(t, err)
	deleted, err := Delete(ctx, fixtures.Alice, DeleteInput{RecordID: created.RecordID}, ts+20)
	require.NoError(t, err)
	for _, r := range []Result{created, updated, deleted} {
		printer.PrintBlob(t, r.Encoded.Data, 0)
	}

	t.Run("folds blobs into one record", func(t *testing.T) {
		x, err := NewIndex(0)
		require.NoError(t, err)

		rec, ok, err := x.Apply(created.Encoded.Data)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "Bob", rec.Name)
		require.Equal(t, ts, rec.CreateTime)

		rec, ok, err = x.Apply(updated.Encoded.Data)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, created.RecordID, rec.ID)
		require.Equal(t, "Robert", rec.Name)
		require.Equal(t, ts, rec.CreateTime)
		require.Equal(t, ts+10, rec.UpdateTime)
		require.Equal(t, updated.Encoded.CID, rec.Head)

		require.Len(t, x.ListByAccount(fixtures.Alice.Principal()), 1)
		require.Len(t, x.ListBySubject(bob), 1)
		require.Empty(t, x.ListByAccount(bob))
	})

	t.Run("order independent", func(t *testing.T) {
		x, err := NewIndex(8)
		require.NoError(t, err)
		for _, data := range [][]byte{deleted.Encoded.Data, created.Encoded.Data, updated.Encoded.Data} {
			_, _, err := x.Apply(data)
			require.NoError(t, err)
		}
		rec, ok := x.Get(created.RecordID)
		require.True(t, ok)
		require.True(t, rec.Deleted)
		require.Equal(t, ts, rec.CreateTime)
		require.Equal(t, deleted.Encoded.CID, rec.Head)
		require.Empty(t, x.ListByAccount(fixtures.Alice.Principal()))
		require.Empty(t, x.ListBySubject(bob))
	})

	t.Run("stale update is not applied", func(t *testing.T) {
		x, err := NewIndex(8)
		require.NoError(t, err)
		_, _, err = x.Apply(updated.Encoded.Data)
		require.NoError(t, err)
		rec, ok, err := x.Apply(created.Encoded.Data)
		require.NoError(t, err)
		require.False(t, ok)
		require.Equal(t, "Robert", rec.Name)
		require.Equal(t, ts, rec.CreateTime)
	})

	t.Run("tampered blob is ignored", func(t *testing.T) {
		x, err := NewIndex(8)
		require.NoError(t, err)
		data := append([]byte{}, created.Encoded.Data...)
		data[len(data)-1] ^= 0x01
		_, ok, err := x.Apply(data)
		require.NoError(t, err)
		require.False(t, ok)
		_, found := x.Get(created.RecordID)
		require.False(t, found)
	})

	t.Run("bounded", func(t *testing.T) {
		x, err := NewIndex(1)
		require.NoError(t, err)
		other, err := Create(ctx, fixtures.Alice, CreateInput{Subject: fixtures.Mallory.Principal(), Name: "M"}, ts)
		require.NoError(t, err)
		_, _, err = x.Apply(created.Encoded.Data)
		require.NoError(t, err)
		_, _, err = x.Apply(other.Encoded.Data)
		require.NoError(t, err)
		_, found := x.Get(created.RecordID)
		require.False(t, found)
		_, found = x.Get(other.RecordID)
		require.True(t, found)
	})

	t.Run("other blob types are rejected", func(t *testing.T) {
		x, err := NewIndex(8)
		require.NoError(t, err)
		profile, err := blob.NewProfile(ctx, fixtures.Alice, blob.ProfileOptions{Name: "Alice"}, ts)
		require.NoError(t, err)
		_, ok, err := x.Apply(profile.Data)
		require.Error(t, err)
		require.False(t, ok)

		_, ok, err = x.Apply([]byte{0xa0})
		require.NoError(t, err)
		require.False(t, ok)
	})
}
