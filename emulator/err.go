package emulator

import (
	"github.com/FlorpyDorpinator/ic10/translate"
)

var f = translate.From

// ErrBenchValue indicates a bench script argument that could not be
// interpreted.
type ErrBenchValue struct {
	Key string
}

func (err ErrBenchValue) Error() string {
	return f("bench: '%v' is not a usable value", err.Key)
}

// ErrBenchPin indicates a bench device declared on an invalid pin.
type ErrBenchPin int

func (err ErrBenchPin) Error() string {
	return f("bench: pin %d invalid", int(err))
}
