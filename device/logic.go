package device

// LogicType is an enumerated device property key.
type LogicType int

const (
	LogicNone LogicType = iota // None
	LogicPower
	LogicOpen
	LogicMode
	LogicError
	LogicLock
	LogicPressure
	LogicTemperature
	LogicPressureExternal
	LogicPressureInternal
	LogicActivate
	LogicCharge
	LogicSetting
	LogicReagents
	LogicRatioOxygen
	LogicRatioCarbonDioxide
	LogicRatioNitrogen
	LogicRatioPollutant
	LogicRatioVolatiles
	LogicRatioWater
	LogicHorizontal
	LogicVertical
	LogicSolarAngle
	LogicMaximum
	LogicRatio
	LogicQuantity
	LogicOn
	LogicImportQuantity
	LogicExportQuantity
	LogicRequiredPower
	LogicClearMemory
	LogicVolume
	LogicPlant
	LogicHarvest
	LogicOutput
	LogicPressureSetting
	LogicTemperatureSetting
	LogicTemperatureExternal
	LogicFiltration
	LogicAirRelease
	LogicPositionX
	LogicPositionY
	LogicPositionZ
	LogicVelocityMagnitude
	LogicTargetX
	LogicTargetY
	LogicTargetZ
	LogicPrefabHash
	LogicNameHash
	LogicReferenceId
	LogicLineNumber
)

var logicTypes = map[string]LogicType{
	"None":                LogicNone,
	"Power":               LogicPower,
	"Open":                LogicOpen,
	"Mode":                LogicMode,
	"Error":               LogicError,
	"Lock":                LogicLock,
	"Pressure":            LogicPressure,
	"Temperature":         LogicTemperature,
	"PressureExternal":    LogicPressureExternal,
	"PressureInternal":    LogicPressureInternal,
	"Activate":            LogicActivate,
	"Charge":              LogicCharge,
	"Setting":             LogicSetting,
	"Reagents":            LogicReagents,
	"RatioOxygen":         LogicRatioOxygen,
	"RatioCarbonDioxide":  LogicRatioCarbonDioxide,
	"RatioNitrogen":       LogicRatioNitrogen,
	"RatioPollutant":      LogicRatioPollutant,
	"RatioVolatiles":      LogicRatioVolatiles,
	"RatioWater":          LogicRatioWater,
	"Horizontal":          LogicHorizontal,
	"Vertical":            LogicVertical,
	"SolarAngle":          LogicSolarAngle,
	"Maximum":             LogicMaximum,
	"Ratio":               LogicRatio,
	"Quantity":            LogicQuantity,
	"On":                  LogicOn,
	"ImportQuantity":      LogicImportQuantity,
	"ExportQuantity":      LogicExportQuantity,
	"RequiredPower":       LogicRequiredPower,
	"ClearMemory":         LogicClearMemory,
	"Volume":              LogicVolume,
	"Plant":               LogicPlant,
	"Harvest":             LogicHarvest,
	"Output":              LogicOutput,
	"PressureSetting":     LogicPressureSetting,
	"TemperatureSetting":  LogicTemperatureSetting,
	"TemperatureExternal": LogicTemperatureExternal,
	"Filtration":          LogicFiltration,
	"AirRelease":          LogicAirRelease,
	"PositionX":           LogicPositionX,
	"PositionY":           LogicPositionY,
	"PositionZ":           LogicPositionZ,
	"VelocityMagnitude":   LogicVelocityMagnitude,
	"TargetX":             LogicTargetX,
	"TargetY":             LogicTargetY,
	"TargetZ":             LogicTargetZ,
	"PrefabHash":          LogicPrefabHash,
	"NameHash":            LogicNameHash,
	"ReferenceId":         LogicReferenceId,
	"LineNumber":          LogicLineNumber,
}

var logicTypeName = invert(logicTypes)

// LogicTypeOf resolves a logic type by its mnemonic name.
func LogicTypeOf(name string) (lt LogicType, ok bool) {
	lt, ok = logicTypes[name]
	return
}

func (lt LogicType) String() string {
	return logicTypeName[lt]
}

// SlotLogicType is an enumerated device property key scoped to an
// inventory slot.
type SlotLogicType int

const (
	SlotNone SlotLogicType = iota // None
	SlotOccupied
	SlotOccupantHash
	SlotQuantity
	SlotDamage
	SlotClass
	SlotMaxQuantity
	SlotPrefabHash
	SlotCharge
	SlotChargeRatio
	SlotPressure
	SlotTemperature
)

var slotLogicTypes = map[string]SlotLogicType{
	"None":         SlotNone,
	"Occupied":     SlotOccupied,
	"OccupantHash": SlotOccupantHash,
	"Quantity":     SlotQuantity,
	"Damage":       SlotDamage,
	"Class":        SlotClass,
	"MaxQuantity":  SlotMaxQuantity,
	"PrefabHash":   SlotPrefabHash,
	"Charge":       SlotCharge,
	"ChargeRatio":  SlotChargeRatio,
	"Pressure":     SlotPressure,
	"Temperature":  SlotTemperature,
}

var slotLogicTypeName = invert(slotLogicTypes)

// SlotLogicTypeOf resolves a slot logic type by its mnemonic name.
func SlotLogicTypeOf(name string) (slt SlotLogicType, ok bool) {
	slt, ok = slotLogicTypes[name]
	return
}

func (slt SlotLogicType) String() string {
	return slotLogicTypeName[slt]
}

// BatchMode is the aggregation applied across matched devices by the
// lb/lbn opcode family.
type BatchMode int

const (
	BatchAverage BatchMode = iota // Average
	BatchSum
	BatchMinimum
	BatchMaximum
)

var batchModes = map[string]BatchMode{
	"Average": BatchAverage,
	"Sum":     BatchSum,
	"Minimum": BatchMinimum,
	"Maximum": BatchMaximum,
}

var batchModeName = invert(batchModes)

// BatchModeOf resolves a batch mode by its mnemonic name.
func BatchModeOf(name string) (bm BatchMode, ok bool) {
	bm, ok = batchModes[name]
	return
}

func (bm BatchMode) String() string {
	return batchModeName[bm]
}

// ReagentMode selects which reagent quantity an lr read targets.
type ReagentMode int

const (
	ReagentContents ReagentMode = iota // Contents
	ReagentRequired
	ReagentRecipe
	ReagentTotalContents
)

var reagentModes = map[string]ReagentMode{
	"Contents":      ReagentContents,
	"Required":      ReagentRequired,
	"Recipe":        ReagentRecipe,
	"TotalContents": ReagentTotalContents,
}

var reagentModeName = invert(reagentModes)

// ReagentModeOf resolves a reagent mode by its mnemonic name.
func ReagentModeOf(name string) (rm ReagentMode, ok bool) {
	rm, ok = reagentModes[name]
	return
}

func (rm ReagentMode) String() string {
	return reagentModeName[rm]
}

func invert[K comparable, V comparable](in map[K]V) (out map[V]K) {
	out = make(map[V]K, len(in))
	for key, val := range in {
		out[val] = key
	}
	return
}
