// Package contact creates address book records. A record is identified by
// "{authority}/{tsid}" and is made of a creation blob followed by any number
// of updates and tombstones that restate its TSID.
package contact

import (
	"context"
	"fmt"

	"github.com/seed-hypermedia/go-hmblob/api"
	"github.com/seed-hypermedia/go-hmblob/blob"
	"github.com/seed-hypermedia/go-hmblob/core/ipld/codec/cbor"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

type CreateInput struct {
	Subject principal.Principal
	Name    string
}

type UpdateInput struct {
	RecordID string
	Subject  principal.Principal
	Name     string
}

type DeleteInput struct {
	RecordID string
}

// Result is a signed contact blob and the id of the record it belongs to.
type Result struct {
	RecordID string
	Encoded  blob.Encoded[*blob.Contact]
}

// PublishInput returns the PublishBlobs request that stores the blob.
func (r Result) PublishInput() api.PublishBlobsInput {
	return api.PublishBlobsInput{Blobs: []api.PublishBlob{
		api.NewPublishBlob(r.Encoded.CID, r.Encoded.Data),
	}}
}

// Create signs a new contact. Its record id is derived from the timestamp and
// bytes of the blob.
func Create(ctx context.Context, s principal.Signer, in CreateInput, ts int64) (Result, error) {
	name := in.Name
	c := &blob.Contact{
		Base:    blob.Base{Type: blob.TypeContact, Ts: ts},
		Subject: in.Subject,
		Name:    &name,
	}
	enc, err := blob.SignAndEncode(ctx, s, c)
	if err != nil {
		return Result{}, err
	}
	return Result{RecordID: blob.RecordID(s.Principal(), enc.TSID()), Encoded: enc}, nil
}

// Update signs a new version of an existing contact.
func Update(ctx context.Context, s principal.Signer, in UpdateInput, ts int64) (Result, error) {
	_, tsid, err := blob.SplitRecordID(in.RecordID)
	if err != nil {
		return Result{}, err
	}
	id, name := tsid.String(), in.Name
	c := &blob.Contact{
		Base:    blob.Base{Type: blob.TypeContact, Ts: ts},
		ID:      &id,
		Subject: in.Subject,
		Name:    &name,
	}
	enc, err := blob.SignAndEncode(ctx, s, c)
	if err != nil {
		return Result{}, err
	}
	return Result{RecordID: in.RecordID, Encoded: enc}, nil
}

// Delete signs a tombstone for an existing contact.
func Delete(ctx context.Context, s principal.Signer, in DeleteInput, ts int64) (Result, error) {
	_, tsid, err := blob.SplitRecordID(in.RecordID)
	if err != nil {
		return Result{}, err
	}
	id := tsid.String()
	c := &blob.Contact{
		Base: blob.Base{Type: blob.TypeContact, Ts: ts},
		ID:   &id,
	}
	enc, err := blob.SignAndEncode(ctx, s, c)
	if err != nil {
		return Result{}, err
	}
	return Result{RecordID: in.RecordID, Encoded: enc}, nil
}

// RecordIDFromBlob returns the id of the record a contact blob belongs to.
func RecordIDFromBlob(data []byte) (string, error) {
	c, err := readContact(data)
	if err != nil {
		return "", err
	}
	return recordID(c, data), nil
}

func readContact(data []byte) (*blob.Contact, error) {
	nd, err := cbor.DecodeNode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding contact: %w", err)
	}
	b, err := blob.FromIPLD(nd)
	if err != nil {
		return nil, err
	}
	c, ok := b.(*blob.Contact)
	if !ok {
		return nil, fmt.Errorf("expected %s blob, got %s", blob.TypeContact, b.BlobType())
	}
	return c, nil
}

func recordID(c *blob.Contact, data []byte) string {
	if c.ID != nil && *c.ID != "" {
		return blob.RecordID(c.Signer, blob.TSID(*c.ID))
	}
	return blob.RecordID(c.Signer, blob.NewTSID(c.Ts, data))
}
