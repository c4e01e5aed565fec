package chip

import (
	"errors"
	"hash/crc32"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/FlorpyDorpinator/ic10/device"
)

// TokenShape classifies the lexical form of an operand. Shapes are
// fixed at compile time; what a Name ultimately resolves to (define,
// alias, jump tag, enum) is decided at run time, because aliases are
// run-time bindings.
type TokenShape int

const (
	ShapeName TokenShape = iota
	ShapeNumber
	ShapeRegister
	ShapeDevice
)

// Token is a classified operand.
type Token struct {
	Raw   string
	Shape TokenShape

	Number float64 // ShapeNumber: the literal value.

	// ShapeRegister / ShapeDevice chains.
	Index    int // base register index, or device pin digit.
	Indirect int // extra leading `r` count: levels of indirection.
	Base     bool
	Network  int // device `:n` qualifier, or device.NoNetwork.
}

// Named floating constants accepted wherever a value literal is legal.
var constants = map[string]float64{
	"nan":     math.NaN(),
	"pinf":    math.Inf(1),
	"ninf":    math.Inf(-1),
	"pi":      math.Pi,
	"tau":     2 * math.Pi,
	"deg2rad": math.Pi / 180,
	"rad2deg": 180 / math.Pi,
	"epsilon": 2.220446049250313e-16,
	"rgas":    8.31446261815324,
}

var (
	registerRe = regexp.MustCompile(`^(r+)(\d+)$`)
	deviceRe   = regexp.MustCompile(`^d(b|\d|r+\d+)(:(\d+))?$`)
)

// HashString is the deterministic string hash used for prefab and label
// names (`HASH("...")` literals and the label opcode).
func HashString(name string) int32 {
	return int32(crc32.ChecksumIEEE([]byte(name)))
}

// parseNumber parses a numeric literal: decimal, `$` hex or `%` binary,
// with `_` digit separators stripped.
func parseNumber(raw string) (value float64, ok bool) {
	text := strings.ReplaceAll(raw, "_", "")
	if text == "" {
		return
	}

	switch text[0] {
	case '$':
		i64, err := strconv.ParseInt(text[1:], 16, 64)
		if err != nil {
			return
		}
		return float64(i64), true
	case '%':
		i64, err := strconv.ParseInt(text[1:], 2, 64)
		if err != nil {
			return
		}
		return float64(i64), true
	}

	f64, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return
	}
	return f64, true
}

// Classify determines the shape of one operand token.
func Classify(raw string) (tok Token) {
	tok = Token{Raw: raw, Network: device.NoNetwork}

	if value, ok := constants[raw]; ok {
		tok.Shape = ShapeNumber
		tok.Number = value
		return
	}
	if value, ok := parseNumber(raw); ok {
		tok.Shape = ShapeNumber
		tok.Number = value
		return
	}

	if m := registerRe.FindStringSubmatch(raw); m != nil {
		index, err := strconv.Atoi(m[2])
		if err == nil {
			tok.Shape = ShapeRegister
			tok.Index = index
			tok.Indirect = len(m[1]) - 1
			return
		}
	}

	if m := deviceRe.FindStringSubmatch(raw); m != nil {
		tail := m[1]
		tok.Shape = ShapeDevice
		if m[3] != "" {
			network, err := strconv.Atoi(m[3])
			if err == nil {
				tok.Network = network
			}
		}
		switch {
		case tail == "b":
			tok.Base = true
			tok.Index = device.BaseIndex
		case len(tail) == 1:
			tok.Index = int(tail[0] - '0')
		default:
			rm := registerRe.FindStringSubmatch(tail)
			index, err := strconv.Atoi(rm[2])
			if err == nil {
				tok.Index = index
				tok.Indirect = len(rm[1]) // one chain step minimum
				return
			}
		}
		return
	}

	tok.Shape = ShapeName
	return
}

// asInteger converts a resolved value to an exact integer.
func asInteger(value float64) (i int, err error) {
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= 1<<53 {
		err = ErrInvalidInteger
		return
	}
	i = int(math.Round(value))
	return
}

// chainRegister walks a register chain: the token's extra `r` count is
// the number of indirections, each intermediate index read from the
// current register contents and rounded to the nearest integer.
func (chip *Chip) chainRegister(tok Token) (index int, err error) {
	index = tok.Index
	for level := 0; level <= tok.Indirect; level++ {
		if index < 0 || index >= RegisterCount {
			err = ErrRegisterBounds
			return
		}
		if level == tok.Indirect {
			break
		}
		index = int(math.Round(chip.Registers[index]))
	}
	return
}

// resolveRegister resolves a destination operand: register alias, then
// register chain. Nothing else is a legal destination.
func (chip *Chip) resolveRegister(tok Token) (index int, err error) {
	switch tok.Shape {
	case ShapeName:
		alias, ok := chip.Aliases[tok.Raw]
		if !ok || alias.Kind != AliasRegister {
			err = ErrIncorrectVariable
			return
		}
		index = alias.Index
		if index < 0 || index >= RegisterCount {
			err = ErrRegisterBounds
		}
	case ShapeRegister:
		index, err = chip.chainRegister(tok)
	default:
		err = ErrIncorrectVariable
	}
	return
}

// resolveValue resolves a value operand: define, register alias,
// register chain, then literal (enum names included).
func (chip *Chip) resolveValue(tok Token) (value float64, err error) {
	switch tok.Shape {
	case ShapeNumber:
		value = tok.Number
	case ShapeRegister:
		var index int
		index, err = chip.chainRegister(tok)
		if err != nil {
			return
		}
		value = chip.Registers[index]
	case ShapeName:
		if defined, ok := chip.Defines[tok.Raw]; ok {
			value = defined
			return
		}
		if alias, ok := chip.Aliases[tok.Raw]; ok && alias.Kind == AliasRegister {
			if alias.Index < 0 || alias.Index >= RegisterCount {
				err = ErrRegisterBounds
				return
			}
			value = chip.Registers[alias.Index]
			return
		}
		if lt, ok := device.LogicTypeOf(tok.Raw); ok {
			value = float64(lt)
			return
		}
		if slt, ok := device.SlotLogicTypeOf(tok.Raw); ok {
			value = float64(slt)
			return
		}
		if bm, ok := device.BatchModeOf(tok.Raw); ok {
			value = float64(bm)
			return
		}
		if rm, ok := device.ReagentModeOf(tok.Raw); ok {
			value = float64(rm)
			return
		}
		err = ErrIncorrectVariable
	default:
		err = ErrIncorrectVariable
	}
	return
}

// resolveDevice resolves a device operand: device alias, then a
// `db`/`dN`/`drN...` form. Chains indirect through the register file
// and land in the device index space.
func (chip *Chip) resolveDevice(tok Token) (ref device.Ref, err error) {
	ref = device.Ref{Index: device.BaseIndex, Network: device.NoNetwork}

	switch tok.Shape {
	case ShapeName:
		alias, ok := chip.Aliases[tok.Raw]
		if !ok || alias.Kind == AliasRegister {
			err = ErrDeviceNotFound
			return
		}
		ref.Index = alias.Index
		ref.Network = alias.Network
	case ShapeDevice:
		ref.Network = tok.Network
		if tok.Base {
			return
		}
		if tok.Indirect == 0 {
			ref.Index = tok.Index
			return
		}
		// dr... chain: all but the last hop walk registers, the final
		// rounded value is the device index.
		index := tok.Index
		for level := 1; level < tok.Indirect; level++ {
			if index < 0 || index >= RegisterCount {
				err = ErrRegisterBounds
				return
			}
			index = int(math.Round(chip.Registers[index]))
		}
		if index < 0 || index >= RegisterCount {
			err = ErrRegisterBounds
			return
		}
		pin := int(math.Round(chip.Registers[index]))
		if pin < 0 || pin >= device.PinCount {
			err = ErrDeviceBounds
			return
		}
		ref.Index = pin
	default:
		err = ErrDeviceNotFound
	}
	return
}

// resolveLine resolves a line-number operand: jump tag first, then the
// value strategies, rounded to an integer.
func (chip *Chip) resolveLine(tok Token) (line int, err error) {
	if tok.Shape == ShapeName {
		if tag, ok := chip.Tags[tok.Raw]; ok {
			line = tag
			return
		}
	}
	value, err := chip.resolveValue(tok)
	if err != nil {
		return
	}
	line, err = asInteger(value)
	return
}

// resolveLogicType accepts a logic type by name or by ordinal value.
func (chip *Chip) resolveLogicType(tok Token) (lt device.LogicType, err error) {
	if tok.Shape == ShapeName {
		if named, ok := device.LogicTypeOf(tok.Raw); ok {
			lt = named
			return
		}
	}
	value, verr := chip.resolveValue(tok)
	if verr != nil {
		err = errors.Join(ErrIncorrectLogicType, verr)
		return
	}
	ordinal, verr := asInteger(value)
	if verr != nil {
		err = errors.Join(ErrIncorrectLogicType, verr)
		return
	}
	lt = device.LogicType(ordinal)
	return
}

func (chip *Chip) resolveSlotType(tok Token) (slt device.SlotLogicType, err error) {
	if tok.Shape == ShapeName {
		if named, ok := device.SlotLogicTypeOf(tok.Raw); ok {
			slt = named
			return
		}
	}
	value, verr := chip.resolveValue(tok)
	if verr != nil {
		err = errors.Join(ErrIncorrectSlotType, verr)
		return
	}
	ordinal, verr := asInteger(value)
	if verr != nil {
		err = errors.Join(ErrIncorrectSlotType, verr)
		return
	}
	slt = device.SlotLogicType(ordinal)
	return
}

func (chip *Chip) resolveBatchMode(tok Token) (bm device.BatchMode, err error) {
	if tok.Shape == ShapeName {
		if named, ok := device.BatchModeOf(tok.Raw); ok {
			bm = named
			return
		}
	}
	value, verr := chip.resolveValue(tok)
	if verr == nil {
		var ordinal int
		ordinal, verr = asInteger(value)
		if verr == nil && ordinal >= int(device.BatchAverage) && ordinal <= int(device.BatchMaximum) {
			bm = device.BatchMode(ordinal)
			return
		}
	}
	err = ErrIncorrectBatchMode
	return
}

func (chip *Chip) resolveReagentMode(tok Token) (rm device.ReagentMode, err error) {
	if tok.Shape == ShapeName {
		if named, ok := device.ReagentModeOf(tok.Raw); ok {
			rm = named
			return
		}
	}
	value, verr := chip.resolveValue(tok)
	if verr == nil {
		var ordinal int
		ordinal, verr = asInteger(value)
		if verr == nil && ordinal >= int(device.ReagentContents) && ordinal <= int(device.ReagentTotalContents) {
			rm = device.ReagentMode(ordinal)
			return
		}
	}
	err = ErrIncorrectReagentMode
	return
}
