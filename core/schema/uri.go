package schema

import (
	"fmt"
	"net/url"

	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

type uriConfig struct {
	protocol    *string
	requireHost bool
}

type uriReader struct {
	uc *uriConfig
}

type URIOption func(*uriConfig)

// WithProtocol requires the URI scheme, given with its trailing colon, for
// example "https:".
func WithProtocol(protocol string) URIOption {
	return func(uc *uriConfig) {
		uc.protocol = &protocol
	}
}

// WithHost requires the URI to name a host.
func WithHost() URIOption {
	return func(uc *uriConfig) {
		uc.requireHost = true
	}
}

func (ur uriReader) Read(input any) (url.URL, failure.Failure) {
	var u url.URL
	switch v := input.(type) {
	case url.URL:
		u = v
	case *url.URL:
		if v == nil {
			return url.URL{}, NewSchemaError("Expected URI but got nil")
		}
		u = *v
	case string:
		parsed, err := url.ParseRequestURI(v)
		if err != nil {
			return url.URL{}, NewSchemaError(fmt.Sprintf("Invalid URI %q", v))
		}
		u = *parsed
	default:
		return url.URL{}, NewSchemaError(fmt.Sprintf("Expected URI but got %T", input))
	}
	if ur.uc.protocol != nil && *ur.uc.protocol != u.Scheme+":" {
		return url.URL{}, NewSchemaError(fmt.Sprintf("Expected %s URI instead got %s", *ur.uc.protocol, u.String()))
	}
	if ur.uc.requireHost && u.Host == "" {
		return url.URL{}, NewSchemaError(fmt.Sprintf("Expected URI with a host instead got %s", u.String()))
	}
	return u, nil
}

// URI reads a URI from a string or a url.URL.
func URI(opts ...URIOption) Reader[any, url.URL] {
	uc := &uriConfig{}
	for _, opt := range opts {
		opt(uc)
	}
	return uriReader{uc}
}
