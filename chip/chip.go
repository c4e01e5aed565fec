package chip

import (
	"fmt"
	"time"

	"github.com/FlorpyDorpinator/ic10/device"
)

const (
	RegisterCount = 18 // r0-r15, sp, ra
	RegSP         = 16 // stack pointer register index
	RegRA         = 17 // return address register index
)

// AliasKind is the target kind of an alias table entry.
type AliasKind int

const (
	AliasRegister AliasKind = iota
	AliasDevice
	AliasNetwork
)

// Alias is a run-time name binding created by the alias/label opcodes.
type Alias struct {
	Kind    AliasKind
	Index   int
	Network int
}

// Operation is one compiled source line. A nil Spec is a no-op entry
// (blank line, comment-only line, or label line).
type Operation struct {
	LineNo int // zero-based source line index
	Text   string
	Spec   *Spec
	Args   []Token
}

// Chip is one programmable chip: compiled program, register file, stack
// memory, name tables and the two error slots.
type Chip struct {
	Verbose bool // Set to enable verbose logging.

	Registers [RegisterCount]float64
	Stack     Stack

	Ops     []Operation
	Aliases map[string]Alias
	Defines map[string]float64
	Tags    map[string]int

	Counter int

	CompileError *LineError
	RunError     *LineError

	Gateway device.Gateway
	Now     func() time.Time // Host clock, drives the sleep opcode.

	sleep sleepTimer
}

// sleepTimer is the per-chip state of a pending sleep opcode.
type sleepTimer struct {
	active    bool
	line      int
	remaining float64 // seconds
	last      time.Time
}

// New creates a chip attached to a device gateway.
func New(gateway device.Gateway) (chip *Chip) {
	chip = &Chip{
		Gateway: gateway,
		Now:     time.Now,
	}
	chip.resetTables()
	return
}

// resetTables clears the name tables and reinstalls the standard
// aliases. The stack pointer register is zeroed.
func (chip *Chip) resetTables() {
	chip.Aliases = map[string]Alias{
		"db": {Kind: AliasDevice, Index: device.BaseIndex, Network: device.NoNetwork},
		"sp": {Kind: AliasRegister, Index: RegSP},
		"ra": {Kind: AliasRegister, Index: RegRA},
	}
	chip.Defines = make(map[string]float64)
	chip.Tags = make(map[string]int)
	chip.Registers[RegSP] = 0
}

// SetCounter sets the program counter from the outside, clamped into
// the valid line range.
func (chip *Chip) SetCounter(line int) {
	if line < 0 {
		line = 0
	}
	if limit := len(chip.Ops) - 1; line > limit {
		line = limit
	}
	if line < 0 {
		line = 0
	}
	chip.Counter = line
}

// LineNumber is the user-facing 1-based line number of the counter.
func (chip *Chip) LineNumber() int {
	return chip.Counter + 1
}

// String returns the current chip state as a string.
func (chip *Chip) String() (text string) {
	for n := range RegisterCount {
		name := fmt.Sprintf("r%d", n)
		switch n {
		case RegSP:
			name = "sp"
		case RegRA:
			name = "ra"
		}
		text += fmt.Sprintf("% 4s: %v\n", name, chip.Registers[n])
	}
	text += fmt.Sprintf("line: %v\n", chip.LineNumber())
	if chip.CompileError != nil {
		text += fmt.Sprintf("compile error: %v\n", chip.CompileError)
	}
	if chip.RunError != nil {
		text += fmt.Sprintf("run error: %v\n", chip.RunError)
	}
	return
}
