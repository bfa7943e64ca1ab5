package failure

import (
	"errors"
	"fmt"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

// Named is an error that you can read a name from
type Named interface {
	Name() string
}

// WithStackTrace is an error that you can read a stack trace from
type WithStackTrace interface {
	Stack() string
}

type Failure interface {
	error
	Named
}

type NamedWithStackTrace interface {
	Named
	WithStackTrace
}

type namedWithStackTrace struct {
	name  string
	stack pkgerrors.StackTrace
}

func (n namedWithStackTrace) Name() string {
	return n.name
}

func (n namedWithStackTrace) Stack() string {
	return fmt.Sprintf("%+v", n.stack)
}

// NamedWithCurrentStackTrace captures the stack of the caller's caller, so
// error constructors can embed it and report where the error was created.
func NamedWithCurrentStackTrace(name string) NamedWithStackTrace {
	const depth = 32

	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	f := make(pkgerrors.StackTrace, n)
	for i := 0; i < n; i++ {
		f[i] = pkgerrors.Frame(pcs[i])
	}

	return namedWithStackTrace{name, f}
}

type failure struct {
	name    string
	message string
	cause   error
}

func (f failure) Name() string {
	return f.name
}

func (f failure) Error() string {
	return f.message
}

func (f failure) Unwrap() error {
	return f.cause
}

// FromError converts any error into a [Failure]. Errors that already have a
// name keep it, anything else is named "Error".
func FromError(err error) Failure {
	if err == nil {
		return nil
	}
	var named Failure
	if errors.As(err, &named) {
		return failure{name: named.Name(), message: err.Error(), cause: err}
	}
	return failure{name: "Error", message: err.Error(), cause: err}
}

// New creates a named failure.
func New(name string, message string) Failure {
	return failure{name: name, message: message}
}

// Wrap creates a named failure with a cause. The message is formatted as
// "message: cause".
func Wrap(name string, message string, cause error) Failure {
	return failure{name: name, message: fmt.Sprintf("%s: %s", message, cause), cause: cause}
}
