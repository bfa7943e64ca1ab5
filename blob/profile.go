package blob

import (
	"context"

	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// Profile describes an identity. An alias profile carries only Alias and
// redirects the identity to another principal.
type Profile struct {
	Base
	Alias       principal.Principal
	Name        *string
	Avatar      *string
	Description *string
	// Account is the principal this profile speaks for. It is nil for
	// self-signed profiles.
	Account principal.Principal
}

func (p *Profile) ToIPLD() (datamodel.Node, error) {
	return buildMap(8, func(ma datamodel.MapAssembler) {
		p.Base.assemble(ma)
		if len(p.Alias) > 0 {
			qp.MapEntry(ma, "alias", qp.Bytes(p.Alias))
		}
		if p.Name != nil {
			qp.MapEntry(ma, "name", qp.String(*p.Name))
		}
		if p.Avatar != nil {
			qp.MapEntry(ma, "avatar", qp.String(*p.Avatar))
		}
		if p.Description != nil {
			qp.MapEntry(ma, "description", qp.String(*p.Description))
		}
		if len(p.Account) > 0 {
			qp.MapEntry(ma, "account", qp.Bytes(p.Account))
		}
	})
}

// IsAlias reports whether the profile redirects to another identity.
func (p *Profile) IsAlias() bool {
	return len(p.Alias) > 0
}

func readProfile(f *fields) *Profile {
	p := &Profile{}
	readBase(f, &p.Base)
	p.Alias = f.principal("alias", false)
	p.Name = f.optStr("name")
	p.Avatar = f.optStr("avatar")
	p.Description = f.optStr("description")
	p.Account = f.principal("account", false)
	return p
}

type ProfileOptions struct {
	Name        string
	Avatar      *string
	Description *string
	Account     principal.Principal
}

// NewProfile builds and signs a Profile. Account is dropped when it equals the
// signer.
func NewProfile(ctx context.Context, s principal.Signer, opts ProfileOptions, ts int64) (Encoded[*Profile], error) {
	name := opts.Name
	p := &Profile{
		Base:        Base{Type: TypeProfile, Signer: s.Principal(), Ts: ts},
		Name:        &name,
		Avatar:      opts.Avatar,
		Description: opts.Description,
	}
	if len(opts.Account) > 0 && !opts.Account.Equal(s.Principal()) {
		p.Account = opts.Account
	}
	return SignAndEncode(ctx, s, p)
}

// NewProfileAlias builds and signs a Profile that redirects to alias.
func NewProfileAlias(ctx context.Context, s principal.Signer, alias principal.Principal, ts int64) (Encoded[*Profile], error) {
	p := &Profile{
		Base:  Base{Type: TypeProfile, Signer: s.Principal(), Ts: ts},
		Alias: alias,
	}
	return SignAndEncode(ctx, s, p)
}
