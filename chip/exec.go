package chip

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand/v2"

	"github.com/FlorpyDorpinator/ic10/device"
)

// Step is the explicit three-way outcome of executing one operation:
// Continue (advance to Next), Suspend (stop the tick, resume at Next),
// or Fault (the error return).
type Step struct {
	Next    int
	Suspend bool
}

// Run advances the program by at most budget instructions. A Suspend
// stops the tick with the counter at the resume line. A fault pins the
// counter to the faulting line, records the run error slot and stops
// the tick; a later successful step at that line clears the slot.
// Halted reports that the counter has left the program.
func (chip *Chip) Run(budget int) (halted bool, err error) {
	for range budget {
		if chip.Counter < 0 || chip.Counter >= len(chip.Ops) {
			halted = true
			return
		}

		op := &chip.Ops[chip.Counter]

		var st Step
		st, err = chip.step(op)
		if err != nil {
			if !recognized(err) {
				err = errors.Join(ErrUnknown, err)
			}
			chip.RunError = &LineError{Line: op.LineNo, Err: err}
			err = chip.RunError
			return
		}
		chip.RunError = nil

		chip.Counter = st.Next
		if st.Suspend {
			return
		}
	}

	return
}

// step executes one operation, converting panics into faults so that
// no failure path escapes the error slots.
func (chip *Chip) step(op *Operation) (st Step, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	if chip.Verbose {
		log.Printf("%3d: %v", op.LineNo+1, op.Text)
	}

	return chip.execute(op)
}

func (chip *Chip) execute(op *Operation) (st Step, err error) {
	st.Next = chip.Counter + 1

	if op.Spec == nil {
		return
	}

	switch op.Spec.Class {
	case ClassNop, ClassDefine:
		// define was bound at compile time.

	case ClassMove:
		err = chip.storeRegister(op, 0, func() (float64, error) { return chip.resolveValue(op.Args[1]) })

	case ClassSelect:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			vals, err := chip.values(op, 1, 3)
			if err != nil {
				return
			}
			if vals[0] != 0 {
				value = vals[1]
			} else {
				value = vals[2]
			}
			return
		})

	case ClassRand:
		err = chip.storeRegister(op, 0, func() (float64, error) { return rand.Float64(), nil })

	case ClassMath1:
		fn := math1Funcs[op.Spec.Name]
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			value, err = chip.resolveValue(op.Args[1])
			value = fn(value)
			return
		})

	case ClassMath2:
		fn := math2Funcs[op.Spec.Name]
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			vals, err := chip.values(op, 1, 2)
			if err != nil {
				return
			}
			value = fn(vals[0], vals[1])
			return
		})

	case ClassBit1:
		fn := bit1Funcs[op.Spec.Name]
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			in, err := chip.resolveValue(op.Args[1])
			if err != nil {
				return
			}
			payload, err := pack(in)
			if err != nil {
				return
			}
			value = unpackSigned(fn(payload))
			return
		})

	case ClassBit2:
		fn := bit2Funcs[op.Spec.Name]
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			vals, err := chip.values(op, 1, 2)
			if err != nil {
				return
			}
			a, err := pack(vals[0])
			if err != nil {
				return
			}
			b, err := pack(vals[1])
			if err != nil {
				return
			}
			value = unpackSigned(fn(a, b))
			return
		})

	case ClassShift:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			vals, err := chip.values(op, 1, 2)
			if err != nil {
				return
			}
			payload, err := pack(vals[0])
			if err != nil {
				return
			}
			shift, err := shiftAmount(vals[1])
			if err != nil {
				return
			}
			value = unpackSigned(doShift(op.Spec.Name, payload, shift))
			return
		})

	case ClassExtract:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			vals, err := chip.values(op, 1, 3)
			if err != nil {
				return
			}
			payload, err := pack(vals[0])
			if err != nil {
				return
			}
			lo, size, err := fieldRange(vals[1], vals[2])
			if err != nil {
				return
			}
			value = unpackUnsigned((payload >> lo) & (uint64(1)<<size - 1))
			return
		})

	case ClassInsert:
		var index int
		index, err = chip.resolveRegister(op.Args[0])
		if err != nil {
			return
		}
		var vals []float64
		vals, err = chip.values(op, 1, 3)
		if err != nil {
			return
		}
		var payload, field uint64
		payload, err = pack(chip.Registers[index])
		if err != nil {
			return
		}
		lo, size, ferr := fieldRange(vals[0], vals[1])
		if ferr != nil {
			err = ferr
			return
		}
		field, err = pack(vals[2])
		if err != nil {
			return
		}
		mask := (uint64(1)<<size - 1) << lo
		payload = payload&^mask | field<<lo&mask
		chip.Registers[index] = unpackSigned(payload)

	case ClassSet:
		var taken bool
		taken, err = chip.testPredicate(op, 1)
		if err != nil {
			return
		}
		err = chip.storeRegister(op, 0, func() (float64, error) {
			if taken {
				return 1, nil
			}
			return 0, nil
		})

	case ClassBranch, ClassBranchLink, ClassBranchRel:
		var taken bool
		taken, err = chip.testPredicate(op, 0)
		if err != nil {
			return
		}
		if !taken {
			return
		}
		var target int
		target, err = chip.resolveLine(op.Args[len(op.Args)-1])
		if err != nil {
			return
		}
		if op.Spec.Class == ClassBranchRel {
			st.Next = chip.Counter + target
		} else {
			st.Next = target
		}
		if op.Spec.Class == ClassBranchLink {
			chip.Registers[RegRA] = float64(chip.Counter + 1)
		}

	case ClassPush:
		var value float64
		value, err = chip.resolveValue(op.Args[0])
		if err != nil {
			return
		}
		address := int(math.Round(chip.Registers[RegSP]))
		err = chip.Stack.Put(address, value)
		if err != nil {
			return
		}
		chip.Registers[RegSP] = float64(address + 1)

	case ClassPop:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			address := int(math.Round(chip.Registers[RegSP])) - 1
			value, err = chip.Stack.Get(address)
			if err != nil {
				return
			}
			chip.Registers[RegSP] = float64(address)
			return
		})

	case ClassPeek:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			address := int(math.Round(chip.Registers[RegSP])) - 1
			value, err = chip.Stack.Get(address)
			return
		})

	case ClassPoke:
		var vals []float64
		vals, err = chip.values(op, 0, 2)
		if err != nil {
			return
		}
		var address int
		address, err = asInteger(vals[0])
		if err != nil {
			return
		}
		err = chip.Stack.Put(address, vals[1])

	case ClassGet:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			ref, err := chip.resolveDevice(op.Args[1])
			if err != nil {
				return
			}
			address, err := chip.integer(op.Args[2])
			if err != nil {
				return
			}
			if ref.Base() {
				return chip.Stack.Get(address)
			}
			mem, err := chip.lookupMemory(ref)
			if err != nil {
				return
			}
			value, err = mem.ReadMemory(address)
			err = deviceErr(err)
			return
		})

	case ClassPut:
		var ref device.Ref
		ref, err = chip.resolveDevice(op.Args[0])
		if err != nil {
			return
		}
		var address int
		address, err = chip.integer(op.Args[1])
		if err != nil {
			return
		}
		var value float64
		value, err = chip.resolveValue(op.Args[2])
		if err != nil {
			return
		}
		if ref.Base() {
			err = chip.Stack.Put(address, value)
			return
		}
		var mem device.Memory
		mem, err = chip.lookupMemory(ref)
		if err != nil {
			return
		}
		err = deviceErr(mem.WriteMemory(address, value))

	case ClassLoad:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			ref, err := chip.resolveDevice(op.Args[1])
			if err != nil {
				return
			}
			dev, err := chip.lookupDevice(ref)
			if err != nil {
				return
			}
			lt, err := chip.resolveLogicType(op.Args[2])
			if err != nil {
				return
			}
			return chip.readLogic(dev, ref.Base(), lt)
		})

	case ClassStore:
		var ref device.Ref
		ref, err = chip.resolveDevice(op.Args[0])
		if err != nil {
			return
		}
		var dev device.Device
		dev, err = chip.lookupDevice(ref)
		if err != nil {
			return
		}
		var lt device.LogicType
		lt, err = chip.resolveLogicType(op.Args[1])
		if err != nil {
			return
		}
		var value float64
		value, err = chip.resolveValue(op.Args[2])
		if err != nil {
			return
		}
		if ref.Base() && lt == device.LogicLineNumber {
			// Counter write-back clamps silently into bounds.
			var line int
			line, err = asInteger(value)
			if err != nil {
				return
			}
			chip.SetCounter(line - 1)
			st.Next = chip.Counter
			return
		}
		err = chip.writeLogic(dev, lt, value)

	case ClassLoadSlot:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			ref, err := chip.resolveDevice(op.Args[1])
			if err != nil {
				return
			}
			dev, err := chip.lookupDevice(ref)
			if err != nil {
				return
			}
			slot, err := chip.integer(op.Args[2])
			if err != nil {
				return
			}
			slt, err := chip.resolveSlotType(op.Args[3])
			if err != nil {
				return
			}
			if slt == device.SlotNone {
				err = ErrLogicTypeNone
				return
			}
			if !dev.CanReadSlot(slt, slot) {
				err = ErrIncorrectSlotType
				return
			}
			value, err = dev.ReadSlot(slt, slot)
			err = deviceErr(err)
			return
		})

	case ClassStoreSlot:
		var ref device.Ref
		ref, err = chip.resolveDevice(op.Args[0])
		if err != nil {
			return
		}
		var dev device.Device
		dev, err = chip.lookupDevice(ref)
		if err != nil {
			return
		}
		var slot int
		slot, err = chip.integer(op.Args[1])
		if err != nil {
			return
		}
		var slt device.SlotLogicType
		slt, err = chip.resolveSlotType(op.Args[2])
		if err != nil {
			return
		}
		if slt == device.SlotNone {
			err = ErrLogicTypeNone
			return
		}
		var value float64
		value, err = chip.resolveValue(op.Args[3])
		if err != nil {
			return
		}
		if !dev.CanWriteSlot(slt, slot) {
			err = ErrDeviceNotSlotWritable
			return
		}
		err = deviceErr(dev.WriteSlot(slt, slot, value))

	case ClassLoadReagent:
		err = chip.storeRegister(op, 0, func() (value float64, err error) {
			ref, err := chip.resolveDevice(op.Args[1])
			if err != nil {
				return
			}
			dev, err := chip.lookupDevice(ref)
			if err != nil {
				return
			}
			rm, err := chip.resolveReagentMode(op.Args[2])
			if err != nil {
				return
			}
			reagent, err := chip.resolveValue(op.Args[3])
			if err != nil {
				return
			}
			value, err = dev.ReadReagent(rm, reagent)
			err = deviceErr(err)
			return
		})

	case ClassLoadBatch:
		err = chip.executeLoadBatch(op)

	case ClassStoreBatch:
		err = chip.executeStoreBatch(op)

	case ClassAlias:
		err = chip.executeAlias(op)

	case ClassLabel:
		var ref device.Ref
		ref, err = chip.resolveDevice(op.Args[0])
		if err != nil {
			return
		}
		var dev device.Device
		dev, err = chip.lookupDevice(ref)
		if err != nil {
			return
		}
		var value float64
		value, err = chip.resolveValue(op.Args[1])
		if err != nil {
			return
		}
		dev.SetNameHash(int32(value))

	case ClassYield:
		st.Suspend = true

	case ClassSleep:
		st, err = chip.executeSleep(op)

	case ClassHcf:
		err = ErrChipFire

	default:
		err = ErrUnknown
	}

	return
}

// storeRegister resolves the destination operand, evaluates the value,
// and writes it. The destination resolves before the value so that an
// unwritable destination faults first.
func (chip *Chip) storeRegister(op *Operation, arg int, eval func() (float64, error)) (err error) {
	index, err := chip.resolveRegister(op.Args[arg])
	if err != nil {
		return
	}
	value, err := eval()
	if err != nil {
		return
	}
	chip.Registers[index] = value
	return
}

// values resolves count consecutive value operands starting at arg.
func (chip *Chip) values(op *Operation, arg, count int) (vals []float64, err error) {
	vals = make([]float64, count)
	for n := range count {
		vals[n], err = chip.resolveValue(op.Args[arg+n])
		if err != nil {
			return
		}
	}
	return
}

// integer resolves a value operand that must be an exact integer.
func (chip *Chip) integer(tok Token) (i int, err error) {
	value, err := chip.resolveValue(tok)
	if err != nil {
		return
	}
	return asInteger(value)
}

// lookupDevice resolves a reference through the gateway.
func (chip *Chip) lookupDevice(ref device.Ref) (dev device.Device, err error) {
	if chip.Gateway == nil {
		err = ErrDeviceNotSet
		return
	}
	dev = chip.Gateway.Device(ref)
	if dev == nil {
		err = ErrDeviceNotSet
	}
	return
}

// lookupMemory resolves a reference to a memory-capable device.
func (chip *Chip) lookupMemory(ref device.Ref) (mem device.Memory, err error) {
	dev, err := chip.lookupDevice(ref)
	if err != nil {
		return
	}
	mem, ok := dev.(device.Memory)
	if !ok {
		err = ErrDeviceNotSet
	}
	return
}

// readLogic reads one logic value, re-checking capability on every
// access. The prefab/name hashes and the housing's line number read
// through dedicated paths.
func (chip *Chip) readLogic(dev device.Device, base bool, lt device.LogicType) (value float64, err error) {
	switch {
	case lt == device.LogicNone:
		err = ErrLogicTypeNone
	case lt == device.LogicPrefabHash:
		value = float64(dev.PrefabHash())
	case lt == device.LogicNameHash:
		value = float64(dev.NameHash())
	case lt == device.LogicLineNumber && base:
		value = float64(chip.LineNumber())
	case !dev.CanRead(lt):
		err = ErrIncorrectLogicType
	default:
		value, err = dev.Read(lt)
		err = deviceErr(err)
	}
	return
}

func (chip *Chip) writeLogic(dev device.Device, lt device.LogicType, value float64) (err error) {
	switch {
	case lt == device.LogicNone:
		err = ErrLogicTypeNone
	case !dev.CanWrite(lt):
		err = ErrIncorrectLogicType
	default:
		err = deviceErr(dev.Write(lt, value))
	}
	return
}

// testPredicate evaluates the comparison shared by the set and branch
// families. arg is where the comparison operands start.
func (chip *Chip) testPredicate(op *Operation, arg int) (taken bool, err error) {
	if op.Spec.Pred == "always" {
		taken = true
		return
	}

	pred := predicates[op.Spec.Pred]

	if pred.presence {
		var ref device.Ref
		ref, err = chip.resolveDevice(op.Args[arg])
		if err != nil {
			return
		}
		present := chip.Gateway != nil && chip.Gateway.Device(ref) != nil
		taken = present == pred.want
		return
	}

	vals, err := chip.values(op, arg, len(pred.operands))
	if err != nil {
		return
	}
	taken = pred.test(vals)
	return
}

// executeSleep implements the host-clock driven sleep timer. The first
// invocation at a line arms the timer and suspends; each re-invocation
// subtracts elapsed host time until the duration is spent.
func (chip *Chip) executeSleep(op *Operation) (st Step, err error) {
	st.Next = chip.Counter

	now := chip.Now()

	if !chip.sleep.active || chip.sleep.line != chip.Counter {
		var duration float64
		duration, err = chip.resolveValue(op.Args[0])
		if err != nil {
			return
		}
		chip.sleep = sleepTimer{
			active:    true,
			line:      chip.Counter,
			remaining: duration,
			last:      now,
		}
		st.Suspend = true
		return
	}

	chip.sleep.remaining -= now.Sub(chip.sleep.last).Seconds()
	chip.sleep.last = now

	if chip.sleep.remaining <= 0 {
		chip.sleep = sleepTimer{}
		st.Next = chip.Counter + 1
		return
	}

	st.Suspend = true
	return
}

// executeAlias binds a name to a register or device target. Rebinding
// a name that previously targeted a device clears that device's label.
func (chip *Chip) executeAlias(op *Operation) (err error) {
	name := op.Args[0]
	if name.Shape != ShapeName {
		err = ErrIncorrectVariable
		return
	}

	target := op.Args[1]
	var alias Alias
	switch target.Shape {
	case ShapeRegister:
		var index int
		index, err = chip.chainRegister(target)
		if err != nil {
			return
		}
		alias = Alias{Kind: AliasRegister, Index: index}
	case ShapeDevice:
		var ref device.Ref
		ref, err = chip.resolveDevice(target)
		if err != nil {
			return
		}
		kind := AliasDevice
		if ref.Network != device.NoNetwork {
			kind = AliasNetwork
		}
		alias = Alias{Kind: kind, Index: ref.Index, Network: ref.Network}
	case ShapeName:
		existing, ok := chip.Aliases[target.Raw]
		if !ok {
			err = ErrAliasNotFound
			return
		}
		alias = existing
	default:
		err = ErrIncorrectVariable
		return
	}

	if old, ok := chip.Aliases[name.Raw]; ok && old.Kind != AliasRegister && chip.Gateway != nil {
		ref := device.Ref{Index: old.Index, Network: old.Network}
		if dev := chip.Gateway.Device(ref); dev != nil {
			dev.SetNameHash(0)
		}
	}

	chip.Aliases[name.Raw] = alias
	return
}

// batchArgs locates the operand layout of the lb/sb families.
func batchArgs(op *Operation) (prefab, name, lt, last int) {
	if op.Spec.Named {
		// lbn r hash namehash type mode / sbn hash namehash type value
		return len(op.Args) - 4, len(op.Args) - 3, len(op.Args) - 2, len(op.Args) - 1
	}
	// lb r hash type mode / sb hash type value
	return len(op.Args) - 3, -1, len(op.Args) - 2, len(op.Args) - 1
}

// matchBatch filters the gateway batch list by prefab hash and,
// optionally, name hash.
func (chip *Chip) matchBatch(op *Operation) (matched []device.Device, lt device.LogicType, last int, err error) {
	prefabArg, nameArg, ltArg, lastArg := batchArgs(op)
	last = lastArg

	prefab, err := chip.integer(op.Args[prefabArg])
	if err != nil {
		return
	}
	nameHash := 0
	if nameArg >= 0 {
		nameHash, err = chip.integer(op.Args[nameArg])
		if err != nil {
			return
		}
	}

	lt, err = chip.resolveLogicType(op.Args[ltArg])
	if err != nil {
		return
	}
	if lt == device.LogicNone {
		err = ErrLogicTypeNone
		return
	}

	if chip.Gateway == nil {
		err = ErrDeviceListNull
		return
	}
	batch := chip.Gateway.Batch()
	if batch == nil {
		err = ErrDeviceListNull
		return
	}

	for _, dev := range batch {
		if dev.PrefabHash() != int32(prefab) {
			continue
		}
		if nameArg >= 0 && dev.NameHash() != int32(nameHash) {
			continue
		}
		matched = append(matched, dev)
	}
	return
}

func (chip *Chip) executeLoadBatch(op *Operation) (err error) {
	return chip.storeRegister(op, 0, func() (value float64, err error) {
		matched, lt, modeArg, err := chip.matchBatch(op)
		if err != nil {
			return
		}
		bm, err := chip.resolveBatchMode(op.Args[modeArg])
		if err != nil {
			return
		}

		sum := 0.0
		low := math.Inf(1)
		high := math.Inf(-1)
		for _, dev := range matched {
			var read float64
			read, err = chip.readLogic(dev, false, lt)
			if err != nil {
				return
			}
			sum += read
			low = math.Min(low, read)
			high = math.Max(high, read)
		}

		if len(matched) == 0 {
			// No matches aggregate to zero for every mode.
			return
		}

		switch bm {
		case device.BatchAverage:
			value = sum / float64(len(matched))
		case device.BatchSum:
			value = sum
		case device.BatchMinimum:
			value = low
		case device.BatchMaximum:
			value = high
		}
		return
	})
}

func (chip *Chip) executeStoreBatch(op *Operation) (err error) {
	matched, lt, valueArg, err := chip.matchBatch(op)
	if err != nil {
		return
	}
	value, err := chip.resolveValue(op.Args[valueArg])
	if err != nil {
		return
	}
	for _, dev := range matched {
		err = chip.writeLogic(dev, lt, value)
		if err != nil {
			return
		}
	}
	return
}
