// Package transport defines the request and response shapes exchanged with a
// Hypermedia server, independent of how they are carried.
package transport

import (
	"context"
	"io"
	"net/http"

	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

type HTTPRequest interface {
	Method() string
	// Target is the path and query of the request, relative to the server
	// base URL.
	Target() string
	Headers() http.Header
	Body() io.Reader
}

type HTTPResponse interface {
	Status() int
	Headers() http.Header
	Body() io.ReadCloser
}

// HTTPError is returned when the server answers with a status that is not
// considered successful.
type HTTPError interface {
	failure.Failure
	Status() int
	Headers() http.Header
	// Body is the response body, or nil when it could not be read.
	Body() []byte
}

type Channel interface {
	Request(ctx context.Context, request HTTPRequest) (HTTPResponse, error)
}
