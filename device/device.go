// Package device defines the gateway between an IC10 chip and the devices
// it can observe or command. The chip never owns a device; it resolves a
// reference through a Gateway on every access, since device state (and
// presence) can change between ticks.
package device

// Ref is a resolved device reference.
// Index is the device pin number; BaseIndex refers to the housing itself
// (the `db` sentinel). Network optionally narrows the reference to one
// network connection of the device, or NoNetwork for the default.
type Ref struct {
	Index   int
	Network int
}

const (
	BaseIndex = -1 // `db`, the chip's own housing.
	NoNetwork = -1 // No `:n` network qualifier.
)

// Base returns true if the reference is the chip's own housing.
func (ref Ref) Base() bool {
	return ref.Index == BaseIndex
}

// Device is a single queryable/writable device.
// Capability checks must be consulted before every read or write; a
// capability is not a stable property of the device.
type Device interface {
	// PrefabHash returns the hash of the device's prefab name.
	PrefabHash() int32
	// NameHash returns the hash of the device's label, or 0 if unlabeled.
	NameHash() int32
	// SetNameHash relabels the device. A zero hash clears the label.
	SetNameHash(hash int32)

	CanRead(lt LogicType) bool
	CanWrite(lt LogicType) bool
	Read(lt LogicType) (value float64, err error)
	Write(lt LogicType, value float64) (err error)

	CanReadSlot(slt SlotLogicType, slot int) bool
	ReadSlot(slt SlotLogicType, slot int) (value float64, err error)
	CanWriteSlot(slt SlotLogicType, slot int) bool
	WriteSlot(slt SlotLogicType, slot int, value float64) (err error)

	ReadReagent(rm ReagentMode, reagentHash float64) (value float64, err error)
}

// Memory is the optional address-space surface of a device.
// Address errors use the same underflow/overflow kinds as the chip stack.
type Memory interface {
	ReadMemory(address int) (value float64, err error)
	WriteMemory(address int, value float64) (err error)
}

// Gateway resolves device references and exposes the batch-output list
// for the lb/sb opcode family.
type Gateway interface {
	// Device resolves a reference, or returns nil if nothing is connected.
	Device(ref Ref) Device
	// Batch returns the ordered batch-output list, or nil if the network
	// has no batch output at all.
	Batch() []Device
}
