package emulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorpyDorpinator/ic10/chip"
	"github.com/FlorpyDorpinator/ic10/device"
)

func TestBench_DeclaresPinnedDevice(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `
device(0, prefab="StructureGasSensor", Temperature=295.15, Pressure=101.3)
`)
	require.NoError(t, err)

	sim := house.Net.Pins[0]
	require.NotNil(t, sim)
	assert.Equal(chip.HashString("StructureGasSensor"), sim.Prefab)
	assert.Equal(295.15, sim.Logic[device.LogicTemperature])

	require.NoError(t, house.Load("l r0 d0 Pressure"))
	_, err = house.Tick()
	assert.NoError(err)
	assert.Equal(101.3, house.RegisterSnapshot()[0])
}

func TestBench_BatchOnlyDevice(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `
for value in [2, 4, 6]:
    device(prefab="Foo", batch=True, Power=value)
`)
	require.NoError(t, err)
	assert.Len(house.Net.Batched, 3)

	require.NoError(t, house.Load(`lb r0 HASH("Foo") Power Average`))
	_, err = house.Tick()
	assert.NoError(err)
	assert.Equal(4.0, house.RegisterSnapshot()[0])
}

func TestBench_NamedAndNumericHash(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `
device(1, prefab=12345, name="tagged")
`)
	require.NoError(t, err)

	sim := house.Net.Pins[1]
	require.NotNil(t, sim)
	assert.Equal(int32(12345), sim.Prefab)
	assert.Equal(chip.HashString("tagged"), sim.Name)
}

func TestBench_MemoryAndSlots(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `
device(0, prefab="StructureLogicMemory", memory=16)
device(1, prefab="StructureVendingMachine", slots=[{"Quantity": 3, "Occupied": 1}])
`)
	require.NoError(t, err)

	assert.Len(house.Net.Pins[0].Memory, 16)
	require.Len(t, house.Net.Pins[1].Slots, 1)
	assert.Equal(3.0, house.Net.Pins[1].Slots[0][device.SlotQuantity])
}

func TestBench_ReadOnly(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `
device(0, prefab="StructureGasSensor", Temperature=295.15, readonly=["Temperature"])
`)
	require.NoError(t, err)
	assert.True(house.Net.Pins[0].ReadOnly[device.LogicTemperature])
}

func TestBench_Base(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()
	err := house.ExecBench("bench.star", `base(Setting=42)`)
	require.NoError(t, err)
	assert.Equal(42.0, house.Net.Base.Logic[device.LogicSetting])
}

func TestBench_Errors(t *testing.T) {
	assert := assert.New(t)

	house := NewHousing()

	err := house.ExecBench("bench.star", `device(9, prefab="Foo")`)
	assert.ErrorAs(err, new(ErrBenchPin))

	err = house.ExecBench("bench.star", `device(0, NotALogicType=1)`)
	assert.ErrorAs(err, new(ErrBenchValue))
}
