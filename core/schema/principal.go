package schema

import (
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
	"github.com/seed-hypermedia/go-hmblob/principal"
)

var principalreader = reader[string, principal.Principal]{
	readFunc: func(input string) (principal.Principal, failure.Failure) {
		p, err := principal.Parse(input)
		if err != nil {
			return nil, NewSchemaError(err.Error())
		}
		return p, nil
	},
}

// Principal reads an Ed25519 principal from its multibase string.
func Principal() Reader[string, principal.Principal] {
	return principalreader
}

// PrincipalString validates a principal string and returns it unchanged.
func PrincipalString() Reader[string, string] {
	return Mapped(Principal(), func(p principal.Principal) (string, failure.Failure) {
		return p.String(), nil
	})
}
