package api

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/schema"
)

//go:embed api.ipldsch
var apisch []byte

var (
	once sync.Once
	ts   *schema.TypeSystem
	err  error
)

func mustLoadSchema() *schema.TypeSystem {
	once.Do(func() {
		ts, err = ipld.LoadSchemaBytes(apisch)
	})
	if err != nil {
		panic(fmt.Errorf("failed to load IPLD schema: %s", err))
	}
	return ts
}

// Type returns a named type of the API schema.
func Type(name string) schema.Type {
	return mustLoadSchema().TypeByName(name)
}

type PublishBlobsInput struct {
	Blobs []PublishBlob
}

// PublishBlob is one blob to store. CID may be omitted, in which case the
// server computes it.
type PublishBlob struct {
	CID  *string
	Data []byte
}

type GetCIDInput struct {
	CID string
}

type ListEventsInput struct {
	PageSize        *int64
	PageToken       *string
	TrustedOnly     *bool
	FilterAuthors   []string
	FilterEventType []string
	FilterResource  *string
	CurrentAccount  *string
}

type AccountOutput struct {
	Type     string
	ID       datamodel.Node
	Metadata datamodel.Node
	HasSite  *bool
}

// NotFound reports whether the server answered with account-not-found.
func (o AccountOutput) NotFound() bool {
	return o.Type == "account-not-found"
}

type ResourceOutput struct {
	Type           string
	ID             datamodel.Node
	Document       datamodel.Node
	Comment        datamodel.Node
	RedirectTarget datamodel.Node
	Message        *string
}

func (o ResourceOutput) IsRedirect() bool {
	return o.Type == "redirect"
}

type ResourceMetadataOutput struct {
	ID       datamodel.Node
	Metadata datamodel.Node
	HasSite  *bool
}

type ListAccountsOutput struct {
	Accounts []datamodel.Node
}

type ListCommentsOutput struct {
	Comments []datamodel.Node
	Authors  datamodel.Node
}

type ListDiscussionsOutput struct {
	Discussions       []datamodel.Node
	Authors           datamodel.Node
	CitingDiscussions []datamodel.Node
}

type CommentOutput struct {
	ID            string
	Version       *string
	Author        string
	TargetAccount *string
	TargetPath    *string
	TargetVersion *string
	ReplyParent   *string
	ThreadRoot    *string
	Content       []datamodel.Node
	CreateTime    datamodel.Node
}

type ListCitationsOutput struct {
	Citations []datamodel.Node
}

type ListChangesOutput struct {
	Changes       []datamodel.Node
	LatestVersion *string
}

type ListCapabilitiesOutput struct {
	Capabilities []datamodel.Node
}

type InteractionSummaryOutput struct {
	Citations int64
	Comments  int64
	Changes   int64
	Blocks    datamodel.Node
}

type ContactOutput struct {
	ID         string
	Subject    string
	Name       string
	Account    string
	CreateTime datamodel.Node
	UpdateTime datamodel.Node
}

type GetCIDOutput struct {
	Value datamodel.Node
}

type ListEventsOutput struct {
	Events        []datamodel.Node
	NextPageToken *string
}

type PublishBlobsOutput struct {
	CIDs []string
}
