// Package api describes the operations of the Hypermedia HTTP API: their
// keys, input validation, query string serialization and response schemas.
package api

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/seed-hypermedia/go-hmblob/core/ipld"
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
	"github.com/seed-hypermedia/go-hmblob/core/schema"
	"github.com/seed-hypermedia/go-hmblob/hmid"
)

// Key names an API operation. It is also the last path segment of the
// operation's URL.
type Key string

const (
	Account            Key = "Account"
	Resource           Key = "Resource"
	ResourceMetadata   Key = "ResourceMetadata"
	ListAccounts       Key = "ListAccounts"
	ListComments       Key = "ListComments"
	ListDiscussions    Key = "ListDiscussions"
	Comment            Key = "Comment"
	ListCitations      Key = "ListCitations"
	ListChanges        Key = "ListChanges"
	ListCapabilities   Key = "ListCapabilities"
	InteractionSummary Key = "InteractionSummary"
	AccountContacts    Key = "AccountContacts"
	SubjectContacts    Key = "SubjectContacts"
	GetCID             Key = "GetCID"
	ListEvents         Key = "ListEvents"
	PublishBlobs       Key = "PublishBlobs"
)

// TargetInput is the input of the List* operations scoped to a resource.
type TargetInput struct {
	TargetID hmid.ID
}

type ListDiscussionsInput struct {
	TargetID hmid.ID
	// CommentID narrows the result to one discussion thread.
	CommentID string
}

type InteractionSummaryInput struct {
	ID hmid.ID
}

// Operation describes how one API call is validated and transported.
type Operation struct {
	Key    Key
	Method string
	// Input validates a request input and returns it in normalized form.
	Input schema.Reader[any, any]
	// Query serializes a normalized input. It is nil for POST operations.
	Query func(input any) (string, error)
	// Output validates the unwrapped response body.
	Output schema.Reader[any, any]
}

var (
	opsOnce    sync.Once
	operations map[Key]Operation
)

// Lookup returns the operation registered for key.
func Lookup(key Key) (Operation, bool) {
	opsOnce.Do(func() { operations = register() })
	op, ok := operations[key]
	return op, ok
}

// Keys lists every registered operation key.
func Keys() []Key {
	opsOnce.Do(func() { operations = register() })
	keys := make([]Key, 0, len(operations))
	for k := range operations {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func register() map[Key]Operation {
	ops := []Operation{
		get(Account, uidInput(), uidQuery, output[AccountOutput]("AccountOutput")),
		get(Resource, idInput(), idParamQuery, output[ResourceOutput]("ResourceOutput")),
		get(ResourceMetadata, idInput(), idParamQuery, output[ResourceMetadataOutput]("ResourceMetadataOutput")),
		get(ListAccounts, emptyInput(), genericQuery(""), output[ListAccountsOutput]("ListAccountsOutput")),
		get(ListComments, targetInput(), targetQuery, output[ListCommentsOutput]("ListCommentsOutput")),
		get(ListDiscussions, discussionsInput(), discussionsQuery, output[ListDiscussionsOutput]("ListDiscussionsOutput")),
		get(Comment, idInput(), idParamQuery, output[CommentOutput]("CommentOutput")),
		get(ListCitations, targetInput(), targetQuery, output[ListCitationsOutput]("ListCitationsOutput")),
		get(ListChanges, targetInput(), targetQuery, output[ListChangesOutput]("ListChangesOutput")),
		get(ListCapabilities, targetInput(), targetQuery, output[ListCapabilitiesOutput]("ListCapabilitiesOutput")),
		get(InteractionSummary, interactionInput(), interactionQuery, output[InteractionSummaryOutput]("InteractionSummaryOutput")),
		get(AccountContacts, uidInput(), uidQuery, output[[]ContactOutput]("ContactListOutput")),
		get(SubjectContacts, uidInput(), uidQuery, output[[]ContactOutput]("ContactListOutput")),
		get(GetCID, getCIDInput(), genericQuery("GetCIDInput"), output[GetCIDOutput]("GetCIDOutput")),
		get(ListEvents, listEventsInput(), genericQuery("ListEventsInput"), output[ListEventsOutput]("ListEventsOutput")),
		{
			Key:    PublishBlobs,
			Method: http.MethodPost,
			Input:  publishInput(),
			Output: output[PublishBlobsOutput]("PublishBlobsOutput"),
		},
	}
	m := make(map[Key]Operation, len(ops))
	for _, op := range ops {
		m[op.Key] = op
	}
	return m
}

func get(key Key, in schema.Reader[any, any], query func(any) (string, error), out schema.Reader[any, any]) Operation {
	return Operation{Key: key, Method: http.MethodGet, Input: in, Query: query, Output: out}
}

func output[T any](typ string) schema.Reader[any, any] {
	return schema.Mapped(schema.Struct[T](Type(typ)), func(o T) (any, failure.Failure) {
		return o, nil
	})
}

func inputError(format string, args ...any) failure.Failure {
	return schema.NewSchemaError(fmt.Sprintf(format, args...))
}

func uidInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		s, ok := input.(string)
		if !ok {
			return nil, inputError("expected account uid string, got %T", input)
		}
		uid, f := schema.PrincipalString().Read(s)
		if f != nil {
			return nil, f
		}
		return uid, nil
	})
}

func readID(input any) (hmid.ID, failure.Failure) {
	var id hmid.ID
	switch v := input.(type) {
	case hmid.ID:
		id = v
	case *hmid.ID:
		if v == nil {
			return hmid.ID{}, inputError("expected hypermedia id, got nil")
		}
		id = *v
	case string:
		parsed, err := hmid.Parse(v)
		if err != nil {
			return hmid.ID{}, schema.NewSchemaError(err.Error())
		}
		id = parsed
	default:
		return hmid.ID{}, inputError("expected hypermedia id, got %T", input)
	}
	if id.UID == "" {
		return hmid.ID{}, schema.NewSchemaError(hmid.ErrMissingUID.Error())
	}
	return id, nil
}

func idInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		id, f := readID(input)
		if f != nil {
			return nil, f
		}
		return id, nil
	})
}

func targetInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		var in TargetInput
		switch v := input.(type) {
		case TargetInput:
			in = v
		case *TargetInput:
			if v == nil {
				return nil, inputError("expected target input, got nil")
			}
			in = *v
		default:
			return nil, inputError("expected target input, got %T", input)
		}
		id, f := readID(in.TargetID)
		if f != nil {
			return nil, f
		}
		return TargetInput{TargetID: id}, nil
	})
}

func discussionsInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		var in ListDiscussionsInput
		switch v := input.(type) {
		case ListDiscussionsInput:
			in = v
		case *ListDiscussionsInput:
			if v == nil {
				return nil, inputError("expected discussions input, got nil")
			}
			in = *v
		default:
			return nil, inputError("expected discussions input, got %T", input)
		}
		id, f := readID(in.TargetID)
		if f != nil {
			return nil, f
		}
		in.TargetID = id
		return in, nil
	})
}

func interactionInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		var in InteractionSummaryInput
		switch v := input.(type) {
		case InteractionSummaryInput:
			in = v
		case *InteractionSummaryInput:
			if v == nil {
				return nil, inputError("expected interaction summary input, got nil")
			}
			in = *v
		default:
			return nil, inputError("expected interaction summary input, got %T", input)
		}
		id, f := readID(in.ID)
		if f != nil {
			return nil, f
		}
		return InteractionSummaryInput{ID: id}, nil
	})
}

func emptyInput() schema.Reader[any, any] {
	return schema.Func(func(input any) (any, failure.Failure) {
		if input != nil {
			return nil, inputError("expected no input, got %T", input)
		}
		return nil, nil
	})
}

func getCIDInput() schema.Reader[any, any] {
	return schema.Mapped(schema.Struct[GetCIDInput](Type("GetCIDInput")), func(in GetCIDInput) (any, failure.Failure) {
		if _, f := schema.ParseLink().Read(in.CID); f != nil {
			return nil, f
		}
		return in, nil
	})
}

func listEventsInput() schema.Reader[any, any] {
	return schema.Mapped(schema.Struct[ListEventsInput](Type("ListEventsInput")), func(in ListEventsInput) (any, failure.Failure) {
		if in.PageSize != nil && *in.PageSize < 0 {
			return nil, inputError("page size must not be negative: %d", *in.PageSize)
		}
		return in, nil
	})
}

func publishInput() schema.Reader[any, any] {
	return schema.Mapped(schema.Struct[PublishBlobsInput](Type("PublishBlobsInput")), func(in PublishBlobsInput) (any, failure.Failure) {
		if len(in.Blobs) == 0 {
			return nil, inputError("no blobs to publish")
		}
		for i, b := range in.Blobs {
			if len(b.Data) == 0 {
				return nil, inputError("blob %d has no data", i)
			}
			if b.CID != nil {
				if _, f := schema.ParseLink().Read(*b.CID); f != nil {
					return nil, f
				}
			}
		}
		return in, nil
	})
}

func uidQuery(input any) (string, error) {
	return idQuery("id", input.(string)), nil
}

func idParamQuery(input any) (string, error) {
	id := input.(hmid.ID)
	packed, err := id.Pack()
	if err != nil {
		return "", err
	}
	return idQuery("id", packed), nil
}

func targetQuery(input any) (string, error) {
	in := input.(TargetInput)
	packed, err := in.TargetID.Pack()
	if err != nil {
		return "", err
	}
	return idQuery("targetId", packed), nil
}

func discussionsQuery(input any) (string, error) {
	in := input.(ListDiscussionsInput)
	packed, err := in.TargetID.Pack()
	if err != nil {
		return "", err
	}
	params := []queryParam{{"targetId", packed}}
	if in.CommentID != "" {
		params = append(params, queryParam{"commentId", in.CommentID})
	}
	return "?" + encodeParams(params), nil
}

func interactionQuery(input any) (string, error) {
	in := input.(InteractionSummaryInput)
	packed, err := in.ID.Pack()
	if err != nil {
		return "", err
	}
	return idQuery("id", packed), nil
}

// genericQuery serializes inputs through their schema type so parameters
// follow the schema's field order.
func genericQuery(typ string) func(any) (string, error) {
	return func(input any) (string, error) {
		if input == nil || typ == "" {
			return "", nil
		}
		var ptr any
		switch v := input.(type) {
		case GetCIDInput:
			ptr = &v
		case ListEventsInput:
			ptr = &v
		default:
			return "", fmt.Errorf("no query schema for %T", input)
		}
		nd, err := ipld.WrapWithRecovery(ptr, Type(typ))
		if err != nil {
			return "", err
		}
		return SerializeQuery(nd)
	}
}
