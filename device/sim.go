package device

// Sim is an in-memory device model for benches and tests.
// A logic key is readable when present in Logic; it is writable unless
// listed in ReadOnly. Memory is the optional address space; a device
// with no Memory rejects every address as an overflow.
type Sim struct {
	Prefab int32
	Name   int32

	Logic    map[LogicType]float64
	ReadOnly map[LogicType]bool

	Slots        []map[SlotLogicType]float64
	SlotReadOnly bool

	Reagents map[ReagentMode]map[int32]float64

	Memory []float64
}

var _ Device = (*Sim)(nil)
var _ Memory = (*Sim)(nil)

func (sim *Sim) PrefabHash() int32 {
	return sim.Prefab
}

func (sim *Sim) NameHash() int32 {
	return sim.Name
}

func (sim *Sim) SetNameHash(hash int32) {
	sim.Name = hash
}

func (sim *Sim) CanRead(lt LogicType) bool {
	_, ok := sim.Logic[lt]
	return ok
}

func (sim *Sim) CanWrite(lt LogicType) bool {
	_, ok := sim.Logic[lt]
	return ok && !sim.ReadOnly[lt]
}

func (sim *Sim) Read(lt LogicType) (value float64, err error) {
	value, ok := sim.Logic[lt]
	if !ok {
		err = ErrNotReadable
	}
	return
}

func (sim *Sim) Write(lt LogicType, value float64) (err error) {
	if !sim.CanWrite(lt) {
		err = ErrNotWritable
		return
	}
	sim.Logic[lt] = value
	return
}

func (sim *Sim) CanReadSlot(slt SlotLogicType, slot int) bool {
	if slot < 0 || slot >= len(sim.Slots) {
		return false
	}
	_, ok := sim.Slots[slot][slt]
	return ok
}

func (sim *Sim) ReadSlot(slt SlotLogicType, slot int) (value float64, err error) {
	if !sim.CanReadSlot(slt, slot) {
		err = ErrSlotInvalid
		return
	}
	value = sim.Slots[slot][slt]
	return
}

func (sim *Sim) CanWriteSlot(slt SlotLogicType, slot int) bool {
	return sim.CanReadSlot(slt, slot) && !sim.SlotReadOnly
}

func (sim *Sim) WriteSlot(slt SlotLogicType, slot int, value float64) (err error) {
	if !sim.CanWriteSlot(slt, slot) {
		err = ErrSlotNotWritable
		return
	}
	sim.Slots[slot][slt] = value
	return
}

func (sim *Sim) ReadReagent(rm ReagentMode, reagentHash float64) (value float64, err error) {
	value = sim.Reagents[rm][int32(reagentHash)]
	return
}

func (sim *Sim) ReadMemory(address int) (value float64, err error) {
	if address < 0 {
		err = ErrMemoryUnderflow
		return
	}
	if address >= len(sim.Memory) {
		err = ErrMemoryOverflow
		return
	}
	value = sim.Memory[address]
	return
}

func (sim *Sim) WriteMemory(address int, value float64) (err error) {
	if address < 0 {
		err = ErrMemoryUnderflow
		return
	}
	if address >= len(sim.Memory) {
		err = ErrMemoryOverflow
		return
	}
	sim.Memory[address] = value
	return
}

// PinCount is the number of device pins on a housing.
const PinCount = 6

// SimNet is a Gateway over simulated devices. Base is the housing
// itself, Pins are the d0..d5 connections, and Batched is the ordered
// batch-output list (nil means no batch output is available).
type SimNet struct {
	Base    *Sim
	Pins    [PinCount]*Sim
	Batched []*Sim
}

var _ Gateway = (*SimNet)(nil)

func (net *SimNet) Device(ref Ref) Device {
	if ref.Base() {
		if net.Base == nil {
			return nil
		}
		return net.Base
	}
	if ref.Index < 0 || ref.Index >= PinCount {
		return nil
	}
	if net.Pins[ref.Index] == nil {
		return nil
	}
	return net.Pins[ref.Index]
}

func (net *SimNet) Batch() (batch []Device) {
	if net.Batched == nil {
		return
	}
	batch = make([]Device, 0, len(net.Batched))
	for _, sim := range net.Batched {
		batch = append(batch, sim)
	}
	return
}
