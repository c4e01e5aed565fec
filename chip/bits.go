package chip

import (
	"math"
)

const (
	payloadBits = 53
	payloadMask = uint64(1)<<payloadBits - 1
	signBit     = uint64(1) << (payloadBits - 1)
)

// pack converts a register value to the 53-bit unsigned payload the
// bitwise opcodes operate on.
func pack(value float64) (payload uint64, err error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		err = ErrInvalidInteger
		return
	}
	truncated := math.Trunc(value)
	if truncated >= 1<<payloadBits || truncated < -(1<<(payloadBits-1)) {
		err = ErrPayloadOverflow
		return
	}
	payload = uint64(int64(truncated)) & payloadMask
	return
}

// unpackSigned reads the payload back with bit 52 sign-extended.
func unpackSigned(payload uint64) float64 {
	if payload&signBit != 0 {
		return float64(int64(payload | ^payloadMask))
	}
	return float64(int64(payload))
}

// unpackUnsigned reads the payload back as a plain magnitude.
func unpackUnsigned(payload uint64) float64 {
	return float64(payload)
}

// shiftAmount validates a shift operand: an integer in [0, 53).
func shiftAmount(value float64) (shift uint, err error) {
	i, err := asInteger(value)
	if err != nil {
		return
	}
	if i < 0 {
		err = ErrShiftUnderflow
		return
	}
	if i >= payloadBits {
		err = ErrShiftOverflow
		return
	}
	shift = uint(i)
	return
}

// fieldRange validates a bitfield start/width pair: width at least one
// bit, and start+width within the payload.
func fieldRange(start, width float64) (lo, size uint, err error) {
	lo, err = shiftAmount(start)
	if err != nil {
		return
	}
	w, err := asInteger(width)
	if err != nil {
		return
	}
	if w < 1 {
		err = ErrShiftUnderflow
		return
	}
	if int(lo)+w > payloadBits {
		err = ErrShiftOverflow
		return
	}
	size = uint(w)
	return
}

// doShift performs one of the shift opcodes on a packed payload.
func doShift(name string, payload uint64, shift uint) uint64 {
	switch name {
	case "sll", "sla":
		return (payload << shift) & payloadMask
	case "srl":
		return payload >> shift
	case "sra":
		// Arithmetic right: sign-extend bit 52 before shifting.
		signed := int64(payload)
		if payload&signBit != 0 {
			signed = int64(payload | ^payloadMask)
		}
		return uint64(signed>>shift) & payloadMask
	}
	return payload
}
