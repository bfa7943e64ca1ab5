package schema

import (
	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

// Reader validates an input and converts it to an output, failing with a
// named failure when the input does not match.
type Reader[I, O any] interface {
	Read(input I) (O, failure.Failure)
}

type reader[I, O any] struct {
	readFunc func(input I) (O, failure.Failure)
}

func (r reader[I, O]) Read(input I) (O, failure.Failure) {
	return r.readFunc(input)
}

// Func creates a reader from a function.
func Func[I, O any](fn func(input I) (O, failure.Failure)) Reader[I, O] {
	return reader[I, O]{readFunc: fn}
}

type schemaerr struct {
	message string
}

func (se schemaerr) Name() string {
	return "SchemaError"
}

func (se schemaerr) Error() string {
	return se.message
}

var _ failure.Failure = schemaerr{}

func NewSchemaError(message string) failure.Failure {
	return schemaerr{message}
}
