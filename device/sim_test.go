package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSim_LogicCapabilities(t *testing.T) {
	assert := assert.New(t)

	sim := &Sim{
		Logic:    map[LogicType]float64{LogicSetting: 3, LogicPressure: 99},
		ReadOnly: map[LogicType]bool{LogicPressure: true},
	}

	assert.True(sim.CanRead(LogicSetting))
	assert.True(sim.CanWrite(LogicSetting))
	assert.True(sim.CanRead(LogicPressure))
	assert.False(sim.CanWrite(LogicPressure))
	assert.False(sim.CanRead(LogicVolume))

	val, err := sim.Read(LogicSetting)
	assert.NoError(err)
	assert.Equal(3.0, val)

	_, err = sim.Read(LogicVolume)
	assert.ErrorIs(err, ErrNotReadable)

	assert.NoError(sim.Write(LogicSetting, 5))
	assert.Equal(5.0, sim.Logic[LogicSetting])

	assert.ErrorIs(sim.Write(LogicPressure, 1), ErrNotWritable)
}

func TestSim_Slots(t *testing.T) {
	assert := assert.New(t)

	sim := &Sim{
		Slots: []map[SlotLogicType]float64{
			{SlotQuantity: 4},
		},
	}

	assert.True(sim.CanReadSlot(SlotQuantity, 0))
	assert.False(sim.CanReadSlot(SlotQuantity, 1))
	assert.False(sim.CanReadSlot(SlotDamage, 0))

	val, err := sim.ReadSlot(SlotQuantity, 0)
	assert.NoError(err)
	assert.Equal(4.0, val)

	assert.NoError(sim.WriteSlot(SlotQuantity, 0, 7))
	assert.Equal(7.0, sim.Slots[0][SlotQuantity])

	sim.SlotReadOnly = true
	assert.ErrorIs(sim.WriteSlot(SlotQuantity, 0, 8), ErrSlotNotWritable)
}

func TestSim_Memory(t *testing.T) {
	assert := assert.New(t)

	sim := &Sim{Memory: make([]float64, 4)}

	assert.NoError(sim.WriteMemory(3, 1.5))
	val, err := sim.ReadMemory(3)
	assert.NoError(err)
	assert.Equal(1.5, val)

	_, err = sim.ReadMemory(-1)
	assert.ErrorIs(err, ErrMemoryUnderflow)
	_, err = sim.ReadMemory(4)
	assert.ErrorIs(err, ErrMemoryOverflow)

	// A device without memory rejects every address.
	empty := &Sim{}
	assert.ErrorIs(empty.WriteMemory(0, 1), ErrMemoryOverflow)
}

func TestSimNet_Device(t *testing.T) {
	assert := assert.New(t)

	base := &Sim{}
	pinned := &Sim{}
	net := &SimNet{Base: base}
	net.Pins[2] = pinned

	assert.Same(base, net.Device(Ref{Index: BaseIndex}))
	assert.Same(pinned, net.Device(Ref{Index: 2}))

	// Unconnected pins and out-of-range indices resolve to nothing.
	assert.Nil(net.Device(Ref{Index: 0}))
	assert.Nil(net.Device(Ref{Index: PinCount}))

	// An absent base also resolves to nothing, not a typed nil.
	assert.Nil((&SimNet{}).Device(Ref{Index: BaseIndex}))
}

func TestSimNet_Batch(t *testing.T) {
	assert := assert.New(t)

	net := &SimNet{}
	assert.Nil(net.Batch())

	net.Batched = append(net.Batched, &Sim{}, &Sim{})
	assert.Len(net.Batch(), 2)
}

func TestLogicTypeNames(t *testing.T) {
	assert := assert.New(t)

	lt, ok := LogicTypeOf("Temperature")
	assert.True(ok)
	assert.Equal(LogicTemperature, lt)
	assert.Equal("Temperature", lt.String())

	_, ok = LogicTypeOf("NotAThing")
	assert.False(ok)

	slt, ok := SlotLogicTypeOf("Quantity")
	assert.True(ok)
	assert.Equal(SlotQuantity, slt)

	bm, ok := BatchModeOf("Average")
	assert.True(ok)
	assert.Equal(BatchAverage, bm)

	rm, ok := ReagentModeOf("Contents")
	assert.True(ok)
	assert.Equal(ReagentContents, rm)
}
