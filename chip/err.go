package chip

import (
	"errors"

	"github.com/FlorpyDorpinator/ic10/device"
	"github.com/FlorpyDorpinator/ic10/translate"
)

var f = translate.From

// Compile-time errors. A compile error is terminal for the compilation
// attempt: the failing line and everything after it are left unparsed.
var (
	ErrUnknownInstruction = errors.New(f("unrecognized instruction"))
	ErrArgumentCount      = errors.New(f("incorrect argument count"))
	ErrDefineDuplicate    = errors.New(f("define duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrStringLiteral      = errors.New(f("malformed string literal"))
	ErrHashLiteral        = errors.New(f("malformed hash literal"))
	ErrNumberLiteral      = errors.New(f("malformed number literal"))
)

// Run-time errors. A run-time fault is terminal for the current tick
// only: the counter is pinned to the faulting line and the fault clears
// on the next successful step at that line.
var (
	ErrIncorrectVariable     = errors.New(f("incorrect variable"))
	ErrIncorrectLogicType    = errors.New(f("incorrect logic type"))
	ErrIncorrectSlotType     = errors.New(f("incorrect slot logic type"))
	ErrIncorrectBatchMode    = errors.New(f("incorrect batch mode"))
	ErrIncorrectReagentMode  = errors.New(f("incorrect reagent mode"))
	ErrDeviceNotFound        = errors.New(f("device not found"))
	ErrDeviceNotSet          = errors.New(f("device not set"))
	ErrDeviceListNull        = errors.New(f("device list null"))
	ErrDeviceNotSlotWritable = errors.New(f("device not slot writable"))
	ErrRegisterBounds        = errors.New(f("register index out of bounds"))
	ErrDeviceBounds          = errors.New(f("device index out of bounds"))
	ErrStackUnderflow        = errors.New(f("stack underflow"))
	ErrStackOverflow         = errors.New(f("stack overflow"))
	ErrInvalidInteger        = errors.New(f("invalid integer"))
	ErrShiftUnderflow        = errors.New(f("shift underflow"))
	ErrShiftOverflow         = errors.New(f("shift overflow"))
	ErrPayloadOverflow       = errors.New(f("payload overflow"))
	ErrLogicTypeNone         = errors.New(f("logic type is none"))
	ErrAliasNotFound         = errors.New(f("alias not found"))
	ErrIndexRange            = errors.New(f("index out of range"))
	ErrChipFire              = errors.New(f("chip catching fire"))
	ErrUnknown               = errors.New(f("unknown chip fault"))
)

// runtimeKinds is the recognized fault set. Anything outside it is
// recorded under ErrUnknown.
var runtimeKinds = []error{
	ErrIncorrectVariable,
	ErrIncorrectLogicType,
	ErrIncorrectSlotType,
	ErrIncorrectBatchMode,
	ErrIncorrectReagentMode,
	ErrDeviceNotFound,
	ErrDeviceNotSet,
	ErrDeviceListNull,
	ErrDeviceNotSlotWritable,
	ErrRegisterBounds,
	ErrDeviceBounds,
	ErrStackUnderflow,
	ErrStackOverflow,
	ErrInvalidInteger,
	ErrShiftUnderflow,
	ErrShiftOverflow,
	ErrPayloadOverflow,
	ErrLogicTypeNone,
	ErrAliasNotFound,
	ErrIndexRange,
	ErrChipFire,
	ErrUnknown,
}

// recognized reports whether err carries one of the run-time fault kinds.
func recognized(err error) bool {
	for _, kind := range runtimeKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// deviceErr maps device-gateway failures onto the chip fault kinds.
func deviceErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, device.ErrNotReadable), errors.Is(err, device.ErrNotWritable):
		return errors.Join(ErrIncorrectLogicType, err)
	case errors.Is(err, device.ErrSlotInvalid):
		return errors.Join(ErrIncorrectSlotType, err)
	case errors.Is(err, device.ErrSlotNotWritable):
		return errors.Join(ErrDeviceNotSlotWritable, err)
	case errors.Is(err, device.ErrMemoryUnderflow):
		return errors.Join(ErrStackUnderflow, err)
	case errors.Is(err, device.ErrMemoryOverflow):
		return errors.Join(ErrStackOverflow, err)
	}
	return err
}

// LineError locates a compile or run-time failure on a source line.
// Line is the zero-based line index; the message is 1-based to match
// what an editor shows.
type LineError struct {
	Line int
	Err  error
}

func (err *LineError) Error() string {
	return f("line %d: %v", err.Line+1, err.Err)
}

func (err *LineError) Unwrap() error {
	return err.Err
}
