package client

import (
	"fmt"

	"github.com/seed-hypermedia/go-hmblob/api"
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

// ValidationError reports an unknown operation, an invalid input or a
// response that does not match the operation's output schema. Input
// validation errors are returned before any request is made.
type ValidationError struct {
	failure.NamedWithStackTrace
	Key   api.Key
	Cause error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s request: %s", e.Key, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(key api.Key, cause error) *ValidationError {
	return &ValidationError{failure.NamedWithCurrentStackTrace("ValidationError"), key, cause}
}

// NetworkError reports that the server could not be reached.
type NetworkError struct {
	failure.NamedWithStackTrace
	Key   api.Key
	Cause error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Key, e.Cause)
}

func (e *NetworkError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(key api.Key, cause error) *NetworkError {
	return &NetworkError{failure.NamedWithCurrentStackTrace("NetworkError"), key, cause}
}

// ClientError reports a response with an unsuccessful status. Body is the raw
// response body, empty when it could not be read.
type ClientError struct {
	failure.NamedWithStackTrace
	Key    api.Key
	Status int
	Body   string
}

func (e *ClientError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s request failed with status %d", e.Key, e.Status)
	}
	return fmt.Sprintf("%s request failed with status %d: %s", e.Key, e.Status, e.Body)
}

func NewClientError(key api.Key, status int, body string) *ClientError {
	return &ClientError{failure.NamedWithCurrentStackTrace("ClientError"), key, status, body}
}

var (
	_ failure.Failure = (*ValidationError)(nil)
	_ failure.Failure = (*NetworkError)(nil)
	_ failure.Failure = (*ClientError)(nil)
)
