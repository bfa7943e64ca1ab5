package client

import (
	"context"
	"fmt"

	"github.com/seed-hypermedia/go-hmblob/api"
	"github.com/seed-hypermedia/go-hmblob/hmid"
)

func request[T any](ctx context.Context, c *Client, key api.Key, input any) (T, error) {
	var zero T
	out, err := c.Request(ctx, key, input)
	if err != nil {
		return zero, err
	}
	o, ok := out.(T)
	if !ok {
		return zero, NewValidationError(key, fmt.Errorf("unexpected output type %T", out))
	}
	return o, nil
}

func (c *Client) Account(ctx context.Context, uid string) (api.AccountOutput, error) {
	return request[api.AccountOutput](ctx, c, api.Account, uid)
}

func (c *Client) Resource(ctx context.Context, id hmid.ID) (api.ResourceOutput, error) {
	return request[api.ResourceOutput](ctx, c, api.Resource, id)
}

func (c *Client) ResourceMetadata(ctx context.Context, id hmid.ID) (api.ResourceMetadataOutput, error) {
	return request[api.ResourceMetadataOutput](ctx, c, api.ResourceMetadata, id)
}

func (c *Client) ListAccounts(ctx context.Context) (api.ListAccountsOutput, error) {
	return request[api.ListAccountsOutput](ctx, c, api.ListAccounts, nil)
}

func (c *Client) ListComments(ctx context.Context, target hmid.ID) (api.ListCommentsOutput, error) {
	return request[api.ListCommentsOutput](ctx, c, api.ListComments, api.TargetInput{TargetID: target})
}

func (c *Client) ListDiscussions(ctx context.Context, in api.ListDiscussionsInput) (api.ListDiscussionsOutput, error) {
	return request[api.ListDiscussionsOutput](ctx, c, api.ListDiscussions, in)
}

func (c *Client) Comment(ctx context.Context, id hmid.ID) (api.CommentOutput, error) {
	return request[api.CommentOutput](ctx, c, api.Comment, id)
}

func (c *Client) ListCitations(ctx context.Context, target hmid.ID) (api.ListCitationsOutput, error) {
	return request[api.ListCitationsOutput](ctx, c, api.ListCitations, api.TargetInput{TargetID: target})
}

func (c *Client) ListChanges(ctx context.Context, target hmid.ID) (api.ListChangesOutput, error) {
	return request[api.ListChangesOutput](ctx, c, api.ListChanges, api.TargetInput{TargetID: target})
}

func (c *Client) ListCapabilities(ctx context.Context, target hmid.ID) (api.ListCapabilitiesOutput, error) {
	return request[api.ListCapabilitiesOutput](ctx, c, api.ListCapabilities, api.TargetInput{TargetID: target})
}

func (c *Client) InteractionSummary(ctx context.Context, id hmid.ID) (api.InteractionSummaryOutput, error) {
	return request[api.InteractionSummaryOutput](ctx, c, api.InteractionSummary, api.InteractionSummaryInput{ID: id})
}

// AccountContacts lists the contacts created by an account.
func (c *Client) AccountContacts(ctx context.Context, uid string) ([]api.ContactOutput, error) {
	return request[[]api.ContactOutput](ctx, c, api.AccountContacts, uid)
}

// SubjectContacts lists the contacts other accounts created about uid.
func (c *Client) SubjectContacts(ctx context.Context, uid string) ([]api.ContactOutput, error) {
	return request[[]api.ContactOutput](ctx, c, api.SubjectContacts, uid)
}

func (c *Client) GetCID(ctx context.Context, cid string) (api.GetCIDOutput, error) {
	return request[api.GetCIDOutput](ctx, c, api.GetCID, api.GetCIDInput{CID: cid})
}

func (c *Client) ListEvents(ctx context.Context, in api.ListEventsInput) (api.ListEventsOutput, error) {
	return request[api.ListEventsOutput](ctx, c, api.ListEvents, in)
}

// PublishBlobs stores signed blobs on the server.
func (c *Client) PublishBlobs(ctx context.Context, in api.PublishBlobsInput) (api.PublishBlobsOutput, error) {
	return request[api.PublishBlobsOutput](ctx, c, api.PublishBlobs, in)
}

// Publish is PublishBlobs.
func (c *Client) Publish(ctx context.Context, in api.PublishBlobsInput) (api.PublishBlobsOutput, error) {
	return c.PublishBlobs(ctx, in)
}
