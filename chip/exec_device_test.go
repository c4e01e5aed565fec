package chip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FlorpyDorpinator/ic10/device"
)

// runNet compiles and runs a program against a simulated network until
// it halts.
func runNet(t *testing.T, net *device.SimNet, source string) (chip *Chip) {
	t.Helper()

	chip = New(net)
	require.NoError(t, chip.Compile(source))

	for {
		halted, err := chip.Run(128)
		require.NoError(t, err)
		if halted {
			return
		}
	}
}

// faultNet compiles a program and returns the first run fault.
func faultNet(t *testing.T, net *device.SimNet, source string) (err error) {
	t.Helper()

	chip := New(net)
	require.NoError(t, chip.Compile(source))
	_, err = chip.Run(128)
	return
}

func sensorNet() (net *device.SimNet) {
	return &device.SimNet{
		Base: &device.Sim{
			Prefab: HashString("StructureCircuitHousing"),
			Logic:  map[device.LogicType]float64{device.LogicSetting: 0},
		},
		Pins: [device.PinCount]*device.Sim{
			0: {
				Prefab: HashString("StructureGasSensor"),
				Logic: map[device.LogicType]float64{
					device.LogicTemperature: 295.15,
					device.LogicPressure:    101.3,
					device.LogicSetting:     0,
				},
				ReadOnly: map[device.LogicType]bool{
					device.LogicTemperature: true,
					device.LogicPressure:    true,
				},
			},
		},
	}
}

func TestExec_LoadLogic(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, sensorNet(), "l r0 d0 Temperature")
	assert.Equal(295.15, chip.Registers[0])
}

func TestExec_LoadHashes(t *testing.T) {
	assert := assert.New(t)

	// Prefab and name hashes read without a capability check.
	net := sensorNet()
	net.Pins[0].Name = HashString("outside")
	chip := runNet(t, net, "l r0 d0 PrefabHash\nl r1 d0 NameHash")
	assert.Equal(float64(HashString("StructureGasSensor")), chip.Registers[0])
	assert.Equal(float64(HashString("outside")), chip.Registers[1])
}

func TestExec_LoadLineNumber(t *testing.T) {
	assert := assert.New(t)

	// The housing's LineNumber is the 1-based current line.
	chip := runNet(t, sensorNet(), "move r1 0\nl r0 db LineNumber")
	assert.Equal(2.0, chip.Registers[0])
}

func TestExec_StoreLineNumberJumps(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, sensorNet(), "s db LineNumber 3\nmove r0 1\nmove r1 1")
	assert.Equal(0.0, chip.Registers[0])
	assert.Equal(1.0, chip.Registers[1])
}

func TestExec_StoreLineNumberClamps(t *testing.T) {
	assert := assert.New(t)

	// An out-of-range line clamps silently instead of faulting.
	chip := runNet(t, sensorNet(), "s db LineNumber 99\nmove r0 1")
	assert.Equal(1.0, chip.Registers[0])
	assert.Nil(chip.RunError)
}

func TestExec_StoreLogic(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	runNet(t, net, "s d0 Setting 12")
	assert.Equal(12.0, net.Pins[0].Logic[device.LogicSetting])
}

func TestExec_StoreReadOnlyFaults(t *testing.T) {
	assert := assert.New(t)

	err := faultNet(t, sensorNet(), "s d0 Temperature 5")
	assert.ErrorIs(err, ErrIncorrectLogicType)
}

func TestExec_LoadUnknownTypeFaults(t *testing.T) {
	assert := assert.New(t)

	err := faultNet(t, sensorNet(), "l r0 d0 Volume")
	assert.ErrorIs(err, ErrIncorrectLogicType)
}

func TestExec_LogicTypeNoneFaults(t *testing.T) {
	assert := assert.New(t)

	err := faultNet(t, sensorNet(), "l r0 d0 None")
	assert.ErrorIs(err, ErrLogicTypeNone)
}

func TestExec_MissingPinFaults(t *testing.T) {
	assert := assert.New(t)

	err := faultNet(t, sensorNet(), "l r0 d3 Temperature")
	assert.ErrorIs(err, ErrDeviceNotSet)
}

func TestExec_NoGatewayFaults(t *testing.T) {
	assert := assert.New(t)

	chip := New(nil)
	require.NoError(t, chip.Compile("l r0 d0 Temperature"))
	_, err := chip.Run(8)
	assert.ErrorIs(err, ErrDeviceNotSet)
}

func TestExec_LoadSlot(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	net.Pins[0].Slots = []map[device.SlotLogicType]float64{
		{device.SlotQuantity: 3, device.SlotOccupied: 1},
	}

	chip := runNet(t, net, "ls r0 d0 0 Quantity")
	assert.Equal(3.0, chip.Registers[0])

	err := faultNet(t, net, "ls r0 d0 1 Quantity")
	assert.ErrorIs(err, ErrIncorrectSlotType)

	err = faultNet(t, net, "ls r0 d0 0 None")
	assert.ErrorIs(err, ErrLogicTypeNone)
}

func TestExec_StoreSlot(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	net.Pins[0].Slots = []map[device.SlotLogicType]float64{
		{device.SlotQuantity: 3},
	}

	runNet(t, net, "ss d0 0 Quantity 8")
	assert.Equal(8.0, net.Pins[0].Slots[0][device.SlotQuantity])

	net.Pins[0].SlotReadOnly = true
	err := faultNet(t, net, "ss d0 0 Quantity 9")
	assert.ErrorIs(err, ErrDeviceNotSlotWritable)
}

func TestExec_LoadReagent(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	net.Pins[0].Reagents = map[device.ReagentMode]map[int32]float64{
		device.ReagentContents: {HashString("Iron"): 12.5},
	}

	chip := runNet(t, net, `lr r0 d0 Contents HASH("Iron")`)
	assert.Equal(12.5, chip.Registers[0])

	// An unknown reagent reads zero rather than faulting.
	chip = runNet(t, net, `lr r0 d0 Contents HASH("Gold")`)
	assert.Equal(0.0, chip.Registers[0])
}

func batchNet(values ...float64) (net *device.SimNet) {
	net = sensorNet()
	for _, value := range values {
		net.Batched = append(net.Batched, &device.Sim{
			Prefab: HashString("Foo"),
			Logic:  map[device.LogicType]float64{device.LogicPower: value},
		})
	}
	return
}

func TestExec_LoadBatchAverage(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, batchNet(2, 4, 6), `lb r0 HASH("Foo") Power Average`)
	assert.Equal(4.0, chip.Registers[0])
}

func TestExec_LoadBatchModes(t *testing.T) {
	assert := assert.New(t)

	net := batchNet(2, 4, 6)
	chip := runNet(t, net, `lb r0 HASH("Foo") Power Sum`+"\n"+
		`lb r1 HASH("Foo") Power Minimum`+"\n"+
		`lb r2 HASH("Foo") Power Maximum`)
	assert.Equal(12.0, chip.Registers[0])
	assert.Equal(2.0, chip.Registers[1])
	assert.Equal(6.0, chip.Registers[2])
}

func TestExec_LoadBatchNoMatches(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, batchNet(2, 4, 6), `move r0 99`+"\n"+
		`lb r0 HASH("Bar") Power Average`)
	assert.Equal(0.0, chip.Registers[0])
}

func TestExec_LoadBatchNilListFaults(t *testing.T) {
	assert := assert.New(t)

	err := faultNet(t, sensorNet(), `lb r0 HASH("Foo") Power Average`)
	assert.ErrorIs(err, ErrDeviceListNull)
}

func TestExec_LoadBatchNamed(t *testing.T) {
	assert := assert.New(t)

	net := batchNet(2, 4, 6)
	net.Batched[1].Name = HashString("picked")

	chip := runNet(t, net, `lbn r0 HASH("Foo") HASH("picked") Power Sum`)
	assert.Equal(4.0, chip.Registers[0])
}

func TestExec_StoreBatch(t *testing.T) {
	assert := assert.New(t)

	net := batchNet(2, 4, 6)
	runNet(t, net, `sb HASH("Foo") Power 9`)
	for _, sim := range net.Batched {
		assert.Equal(9.0, sim.Logic[device.LogicPower])
	}
}

func TestExec_StoreBatchNamed(t *testing.T) {
	assert := assert.New(t)

	net := batchNet(2, 4, 6)
	net.Batched[2].Name = HashString("picked")

	runNet(t, net, `sbn HASH("Foo") HASH("picked") Power 9`)
	assert.Equal(2.0, net.Batched[0].Logic[device.LogicPower])
	assert.Equal(4.0, net.Batched[1].Logic[device.LogicPower])
	assert.Equal(9.0, net.Batched[2].Logic[device.LogicPower])
}

func TestExec_DevicePresence(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, sensorNet(), "sdse r0 d0\nsdse r1 d4\nsdns r2 d4")
	assert.Equal(1.0, chip.Registers[0])
	assert.Equal(0.0, chip.Registers[1])
	assert.Equal(1.0, chip.Registers[2])
}

func TestExec_BranchOnPresence(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, sensorNet(), "bdse d0 2\nmove r0 1\nmove r1 1")
	assert.Equal(0.0, chip.Registers[0])
	assert.Equal(1.0, chip.Registers[1])

	chip = runNet(t, sensorNet(), "bdns d0 2\nmove r0 1\nmove r1 1")
	assert.Equal(1.0, chip.Registers[0])
	assert.Equal(1.0, chip.Registers[1])
}

func TestExec_GetPutHousingStack(t *testing.T) {
	assert := assert.New(t)

	// get/put against the housing address the chip's own stack memory.
	chip := runNet(t, sensorNet(), "put db 3 9\nget r0 db 3")
	assert.Equal(9.0, chip.Registers[0])
	assert.Equal(9.0, chip.Stack.Data[3])
}

func TestExec_GetPutDeviceMemory(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	net.Pins[0].Memory = make([]float64, 8)

	chip := runNet(t, net, "put d0 2 7\nget r0 d0 2")
	assert.Equal(7.0, chip.Registers[0])
	assert.Equal(7.0, net.Pins[0].Memory[2])

	err := faultNet(t, net, "get r0 d0 8")
	assert.ErrorIs(err, ErrStackOverflow)

	// A device with no memory space rejects every address.
	net.Pins[0].Memory = nil
	err = faultNet(t, net, "put d0 0 1")
	assert.ErrorIs(err, ErrStackOverflow)
}

func TestExec_Label(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	runNet(t, net, `label d0 HASH("outside")`)
	assert.Equal(HashString("outside"), net.Pins[0].Name)
}

func TestExec_AliasDevice(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	chip := runNet(t, net, "alias sensor d0\nl r0 sensor Pressure")
	assert.Equal(101.3, chip.Registers[0])
	assert.Equal(Alias{Kind: AliasDevice, Index: 0, Network: device.NoNetwork}, chip.Aliases["sensor"])
}

func TestExec_AliasRebindClearsLabel(t *testing.T) {
	assert := assert.New(t)

	net := sensorNet()
	net.Pins[1] = &device.Sim{Prefab: HashString("StructureGasSensor")}

	chip := runNet(t, net, `alias sensor d0`+"\n"+
		`label sensor HASH("outside")`+"\n"+
		`alias sensor d1`)
	assert.Equal(int32(0), net.Pins[0].Name)
	assert.Equal(1, chip.Aliases["sensor"].Index)
}

func TestExec_IndirectDevice(t *testing.T) {
	assert := assert.New(t)

	chip := runNet(t, sensorNet(), "move r4 0\nl r0 dr4 Temperature")
	assert.Equal(295.15, chip.Registers[0])
}
