package schema

import "github.com/seed-hypermedia/go-hmblob/core/result/failure"

type mapped[I, O, O2 any] struct {
	reader    Reader[I, O]
	converter func(O) (O2, failure.Failure)
}

func (m mapped[I, O, O2]) Read(i I) (O2, failure.Failure) {
	var zero O2
	o, f := m.reader.Read(i)
	if f != nil {
		return zero, f
	}
	return m.converter(o)
}

// Mapped reads with reader and then converts the output, which may itself
// fail. Conversion only runs on accepted inputs.
func Mapped[I, O, O2 any](reader Reader[I, O], converter func(O) (O2, failure.Failure)) Reader[I, O2] {
	return mapped[I, O, O2]{reader, converter}
}
