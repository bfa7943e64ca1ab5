package blob

import (
	"context"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

type Role string

const (
	RoleWriter Role = "WRITER"
	RoleAgent  Role = "AGENT"
)

// Roles lists the roles a capability may grant.
var Roles = []Role{RoleWriter, RoleAgent}

// Capability grants Role to Delegate, optionally scoped to Path.
type Capability struct {
	Base
	Delegate principal.Principal
	Audience principal.Principal
	Path     *string
	Role     Role
	Label    *string
}

func (c *Capability) ToIPLD() (datamodel.Node, error) {
	return buildMap(9, func(ma datamodel.MapAssembler) {
		c.Base.assemble(ma)
		qp.MapEntry(ma, "delegate", qp.Bytes(c.Delegate))
		if len(c.Audience) > 0 {
			qp.MapEntry(ma, "audience", qp.Bytes(c.Audience))
		}
		if c.Path != nil {
			qp.MapEntry(ma, "path", qp.String(*c.Path))
		}
		qp.MapEntry(ma, "role", qp.String(string(c.Role)))
		if c.Label != nil {
			qp.MapEntry(ma, "label", qp.String(*c.Label))
		}
	})
}

func readCapability(f *fields) *Capability {
	c := &Capability{}
	readBase(f, &c.Base)
	c.Delegate = f.principal("delegate", true)
	c.Audience = f.principal("audience", false)
	c.Path = f.optStr("path")
	c.Role = Role(f.str("role"))
	c.Label = f.optStr("label")
	return c
}

type CapabilityOptions struct {
	Path     *string
	Label    *string
	Audience principal.Principal
}

// NewCapability builds and signs a Capability issued by issuer. The role is
// written as given.
func NewCapability(ctx context.Context, issuer principal.Signer, delegate principal.Principal, role Role, ts int64, opts CapabilityOptions) (Encoded[*Capability], error) {
	c := &Capability{
		Base:     Base{Type: TypeCapability, Signer: issuer.Principal(), Ts: ts},
		Delegate: delegate,
		Audience: opts.Audience,
		Path:     opts.Path,
		Role:     role,
		Label:    opts.Label,
	}
	return SignAndEncode(ctx, issuer, c)
}
