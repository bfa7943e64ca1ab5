package schema

import (
	"strings"

	"github.com/seed-hypermedia/go-hmblob/core/result/failure"
)

// UnionError lists why each alternative of an [Or] reader rejected the input.
type UnionError struct {
	Failures []failure.Failure
}

func (ue UnionError) Unwrap() []error {
	errs := make([]error, 0, len(ue.Failures))
	for _, f := range ue.Failures {
		errs = append(errs, f)
	}
	return errs
}

func (ue UnionError) Error() string {
	msgs := make([]string, 0, len(ue.Failures))
	for _, f := range ue.Failures {
		msgs = append(msgs, f.Error())
	}
	return "no alternative matched: " + strings.Join(msgs, "; ")
}

func (ue UnionError) Name() string {
	return "SchemaError"
}

type orReader[I, O any] struct {
	readers []Reader[I, O]
}

func (or orReader[I, O]) Read(input I) (O, failure.Failure) {
	var ue UnionError
	for _, r := range or.readers {
		o, f := r.Read(input)
		if f == nil {
			return o, nil
		}
		ue.Failures = append(ue.Failures, f)
	}
	var o O
	if len(ue.Failures) == 1 {
		return o, ue.Failures[0]
	}
	if len(ue.Failures) == 0 {
		return o, NewSchemaError("no readers")
	}
	return o, ue
}

// Or returns the output of the first reader that accepts the input.
func Or[I, O any](readers ...Reader[I, O]) Reader[I, O] {
	return orReader[I, O]{readers}
}
