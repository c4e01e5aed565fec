package device

import (
	"errors"

	"github.com/FlorpyDorpinator/ic10/translate"
)

var f = translate.From

var (
	// Capability errors
	ErrNotReadable     = errors.New(f("logic type not readable"))
	ErrNotWritable     = errors.New(f("logic type not writable"))
	ErrSlotInvalid     = errors.New(f("slot invalid"))
	ErrSlotNotWritable = errors.New(f("slot not writable"))

	// Memory errors. Same kinds as the chip's own stack bounds.
	ErrMemoryUnderflow = errors.New(f("memory address underflow"))
	ErrMemoryOverflow  = errors.New(f("memory address overflow"))
)
