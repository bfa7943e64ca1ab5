package http

import (
	nethttp "net/http"

	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
	"github.com/seed-hypermedia/go-hmblob/transport"
)

type httpError struct {
	failure.NamedWithStackTrace
	message string
	status  int
	headers nethttp.Header
	body    []byte
}

func (err *httpError) Error() string {
	return err.message
}

func (err *httpError) Status() int {
	return err.status
}

func (err *httpError) Headers() nethttp.Header {
	return err.headers
}

func (err *httpError) Body() []byte {
	return err.body
}

func NewHTTPError(message string, status int, headers nethttp.Header, body []byte) transport.HTTPError {
	return &httpError{
		NamedWithStackTrace: failure.NamedWithCurrentStackTrace("HTTPError"),
		message:             message,
		status:              status,
		headers:             headers,
		body:                body,
	}
}
