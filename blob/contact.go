package blob

import (
	"github.com/ipld/go-ipld-prime/datamodel"
	"github.com/ipld/go-ipld-prime/fluent/qp"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

// Contact is an address book entry. A creation blob has no ID, updates
// restate the TSID of the creation blob in ID, and a tombstone carries ID
// only.
type Contact struct {
	Base
	ID      *string
	Subject principal.Principal
	Name    *string
}

func (c *Contact) ToIPLD() (datamodel.Node, error) {
	return buildMap(7, func(ma datamodel.MapAssembler) {
		c.Base.assemble(ma)
		if c.ID != nil {
			qp.MapEntry(ma, "id", qp.String(*c.ID))
		}
		if len(c.Subject) > 0 {
			qp.MapEntry(ma, "subject", qp.Bytes(c.Subject))
		}
		if c.Name != nil {
			qp.MapEntry(ma, "name", qp.String(*c.Name))
		}
	})
}

// IsTombstone reports whether the blob deletes the record named by ID.
func (c *Contact) IsTombstone() bool {
	return c.ID != nil && len(c.Subject) == 0 && c.Name == nil
}

func readContact(f *fields) *Contact {
	c := &Contact{}
	readBase(f, &c.Base)
	c.ID = f.optStr("id")
	c.Subject = f.principal("subject", false)
	c.Name = f.optStr("name")
	return c
}
