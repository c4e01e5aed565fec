// Package emulator hosts an IC10 chip inside a simulated housing: the
// chip, its device network, and the host clock that drives the sleep
// opcode. It also exposes the read-only views editor tooling consumes.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"
	"strconv"

	"github.com/FlorpyDorpinator/ic10/chip"
	"github.com/FlorpyDorpinator/ic10/device"
	"github.com/FlorpyDorpinator/ic10/internal"
)

const (
	DefaultBudget = 128 // Instructions attempted per tick.
)

// Housing is one chip socketed into a simulated device network.
type Housing struct {
	Verbose bool // If set, enables verbose logging.

	*chip.Chip
	Net *device.SimNet
}

// NewHousing creates a housing with an empty device network. The base
// device carries the standard housing logic keys.
func NewHousing() (house *Housing) {
	net := &device.SimNet{
		Base: &device.Sim{
			Prefab: chip.HashString("StructureCircuitHousing"),
			Logic: map[device.LogicType]float64{
				device.LogicSetting: 0,
				device.LogicOn:      1,
				device.LogicError:   0,
			},
		},
	}

	house = &Housing{
		Net:  net,
		Chip: chip.New(net),
	}

	return
}

// Load compiles source text onto the chip. All prior program state,
// including any suspended sleep, is discarded.
func (house *Housing) Load(source string) (err error) {
	house.Chip.Verbose = house.Verbose

	err = house.Chip.Compile(source)
	if err != nil && house.Verbose {
		log.Printf("load: %v", err)
	}

	return
}

// Tick runs one simulation tick with the default instruction budget.
func (house *Housing) Tick() (halted bool, err error) {
	return house.TickBudget(DefaultBudget)
}

// TickBudget runs one simulation tick with an explicit budget.
func (house *Housing) TickBudget(budget int) (halted bool, err error) {
	house.Chip.Verbose = house.Verbose

	return house.Chip.Run(budget)
}

// RegisterSnapshot returns a copy of the register file.
func (house *Housing) RegisterSnapshot() [chip.RegisterCount]float64 {
	return house.Chip.Registers
}

// StackSnapshot returns a copy of the stack memory.
func (house *Housing) StackSnapshot() [chip.StackLimit]float64 {
	return house.Chip.Stack.Data
}

// CompileError returns the most recent compile failure, or nil.
func (house *Housing) CompileError() *chip.LineError {
	return house.Chip.CompileError
}

// RunError returns the most recent run-time failure, or nil.
func (house *Housing) RunError() *chip.LineError {
	return house.Chip.RunError
}

// Symbols iterates every user-visible name binding (aliases, defines
// and jump tags) with a display string, for completion tooling.
func (house *Housing) Symbols() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(
		mapSeq2(maps.All(house.Chip.Aliases), aliasText),
		mapSeq2(maps.All(house.Chip.Defines), func(value float64) string {
			return strconv.FormatFloat(value, 'g', -1, 64)
		}),
		mapSeq2(maps.All(house.Chip.Tags), func(line int) string {
			return fmt.Sprintf("line %d", line+1)
		}),
	)
}

func aliasText(alias chip.Alias) (text string) {
	switch alias.Kind {
	case chip.AliasRegister:
		text = fmt.Sprintf("r%d", alias.Index)
	case chip.AliasDevice, chip.AliasNetwork:
		if alias.Index == device.BaseIndex {
			text = "db"
		} else {
			text = fmt.Sprintf("d%d", alias.Index)
		}
		if alias.Network != device.NoNetwork {
			text += fmt.Sprintf(":%d", alias.Network)
		}
	}
	return
}

func mapSeq2[K comparable, V any](seq iter.Seq2[K, V], via func(V) string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for key, val := range seq {
			if !yield(fmt.Sprintf("%v", key), via(val)) {
				return
			}
		}
	}
}
