package chip

import (
	"math"
)

// Class is the execution family of an opcode. One switch in the engine
// dispatches on Class; the mnemonic selects the row in the family's own
// function table.
type Class int

const (
	ClassNop Class = iota
	ClassMove
	ClassSelect
	ClassMath1
	ClassMath2
	ClassRand
	ClassSet
	ClassBranch
	ClassBranchLink
	ClassBranchRel
	ClassBit1
	ClassBit2
	ClassShift
	ClassExtract
	ClassInsert
	ClassPush
	ClassPop
	ClassPeek
	ClassPoke
	ClassGet
	ClassPut
	ClassLoad
	ClassStore
	ClassLoadSlot
	ClassStoreSlot
	ClassLoadReagent
	ClassLoadBatch
	ClassStoreBatch
	ClassAlias
	ClassDefine
	ClassLabel
	ClassYield
	ClassSleep
	ClassHcf
)

// Operand kind letters used in Spec.Args:
//
//	r  register destination
//	v  value (define, register alias, register chain, literal)
//	d  device reference
//	l  line value (jump tag, then value strategies)
//	n  bare name (alias/define targets)
//	x  register or device (alias target)
//	t  logic type
//	y  slot logic type
//	b  batch mode
//	m  reagent mode
type Spec struct {
	Name  string
	Class Class
	Args  string
	Pred  string // predicate key for the set/branch families
	Named bool   // batch opcode filters on a name hash as well
}

// predicate is one comparison shared by the s*, b*, b*al and br*
// mnemonic families.
type predicate struct {
	operands string // operand letters consumed by the comparison
	families string // "s" set, "b" absolute branch (+al), "r" relative
	presence bool   // device-presence predicate
	want     bool   // presence wanted (dse) or not (dns)
	test     func(v []float64) bool
}

// apEq is the approximately-equal tolerance test.
func apEq(a, b, c float64) bool {
	return math.Abs(a-b) <= math.Max(c*math.Max(math.Abs(a), math.Abs(b)), math.SmallestNonzeroFloat64)
}

var predicates = map[string]predicate{
	"eq":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] == v[1] }},
	"ne":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] != v[1] }},
	"lt":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] < v[1] }},
	"le":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] <= v[1] }},
	"gt":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] > v[1] }},
	"ge":  {operands: "vv", families: "sbr", test: func(v []float64) bool { return v[0] >= v[1] }},
	"eqz": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] == 0 }},
	"nez": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] != 0 }},
	"ltz": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] < 0 }},
	"lez": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] <= 0 }},
	"gtz": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] > 0 }},
	"gez": {operands: "v", families: "sbr", test: func(v []float64) bool { return v[0] >= 0 }},
	"ap":  {operands: "vvv", families: "sbr", test: func(v []float64) bool { return apEq(v[0], v[1], v[2]) }},
	"na":  {operands: "vvv", families: "sbr", test: func(v []float64) bool { return !apEq(v[0], v[1], v[2]) }},
	"apz": {operands: "vv", families: "sbr", test: func(v []float64) bool { return apEq(v[0], 0, v[1]) }},
	"naz": {operands: "vv", families: "sbr", test: func(v []float64) bool { return !apEq(v[0], 0, v[1]) }},
	"nan": {operands: "v", families: "sbr", test: func(v []float64) bool { return math.IsNaN(v[0]) }},
	"nanz": {operands: "v", families: "s",
		test: func(v []float64) bool { return !math.IsNaN(v[0]) }},
	"dse": {operands: "d", families: "sbr", presence: true, want: true},
	"dns": {operands: "d", families: "sbr", presence: true, want: false},
}

// math1Funcs are the unary arithmetic opcodes. All of them are
// NaN-preserving per IEEE-754.
var math1Funcs = map[string]func(float64) float64{
	"sqrt":  math.Sqrt,
	"round": math.Round,
	"trunc": math.Trunc,
	"ceil":  math.Ceil,
	"floor": math.Floor,
	"abs":   math.Abs,
	"log":   math.Log,
	"exp":   math.Exp,
	"sin":   math.Sin,
	"cos":   math.Cos,
	"tan":   math.Tan,
	"asin":  math.Asin,
	"acos":  math.Acos,
	"atan":  math.Atan,
}

// math2Funcs are the binary arithmetic opcodes.
var math2Funcs = map[string]func(a, b float64) float64{
	"add":   func(a, b float64) float64 { return a + b },
	"sub":   func(a, b float64) float64 { return a - b },
	"mul":   func(a, b float64) float64 { return a * b },
	"div":   func(a, b float64) float64 { return a / b },
	"mod":   posMod,
	"max":   math.Max,
	"min":   math.Min,
	"atan2": math.Atan2,
}

// posMod is the always-non-negative modulo.
func posMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += math.Abs(b)
	}
	return m
}

var bit1Funcs = map[string]func(a uint64) uint64{
	"not": func(a uint64) uint64 { return ^a & payloadMask },
}

var bit2Funcs = map[string]func(a, b uint64) uint64{
	"and": func(a, b uint64) uint64 { return a & b },
	"or":  func(a, b uint64) uint64 { return a | b },
	"xor": func(a, b uint64) uint64 { return a ^ b },
	"nor": func(a, b uint64) uint64 { return ^(a | b) & payloadMask },
}

// opcodeTable maps every mnemonic to its Spec. Populated in init() from
// the fixed rows plus the generated comparison families.
var opcodeTable = map[string]Spec{}

func register(name string, spec Spec) {
	spec.Name = name
	opcodeTable[name] = spec
}

func init() {
	register("move", Spec{Class: ClassMove, Args: "rv"})
	register("select", Spec{Class: ClassSelect, Args: "rvvv"})
	register("rand", Spec{Class: ClassRand, Args: "r"})

	for name := range math1Funcs {
		register(name, Spec{Class: ClassMath1, Args: "rv"})
	}
	for name := range math2Funcs {
		register(name, Spec{Class: ClassMath2, Args: "rvv"})
	}
	for name := range bit1Funcs {
		register(name, Spec{Class: ClassBit1, Args: "rv"})
	}
	for name := range bit2Funcs {
		register(name, Spec{Class: ClassBit2, Args: "rvv"})
	}
	for _, name := range []string{"sll", "sla", "srl", "sra"} {
		register(name, Spec{Class: ClassShift, Args: "rvv"})
	}
	register("ext", Spec{Class: ClassExtract, Args: "rvvv"})
	register("ins", Spec{Class: ClassInsert, Args: "rvvv"})

	register("push", Spec{Class: ClassPush, Args: "v"})
	register("pop", Spec{Class: ClassPop, Args: "r"})
	register("peek", Spec{Class: ClassPeek, Args: "r"})
	register("poke", Spec{Class: ClassPoke, Args: "vv"})
	register("get", Spec{Class: ClassGet, Args: "rdv"})
	register("put", Spec{Class: ClassPut, Args: "dvv"})

	register("l", Spec{Class: ClassLoad, Args: "rdt"})
	register("s", Spec{Class: ClassStore, Args: "dtv"})
	register("ls", Spec{Class: ClassLoadSlot, Args: "rdvy"})
	register("ss", Spec{Class: ClassStoreSlot, Args: "dvyv"})
	register("lr", Spec{Class: ClassLoadReagent, Args: "rdmv"})
	register("lb", Spec{Class: ClassLoadBatch, Args: "rvtb"})
	register("sb", Spec{Class: ClassStoreBatch, Args: "vtv"})
	register("lbn", Spec{Class: ClassLoadBatch, Args: "rvvtb", Named: true})
	register("sbn", Spec{Class: ClassStoreBatch, Args: "vvtv", Named: true})

	register("alias", Spec{Class: ClassAlias, Args: "nx"})
	register("define", Spec{Class: ClassDefine, Args: "nv"})
	register("label", Spec{Class: ClassLabel, Args: "dv"})
	register("yield", Spec{Class: ClassYield, Args: ""})
	register("sleep", Spec{Class: ClassSleep, Args: "v"})
	register("hcf", Spec{Class: ClassHcf, Args: ""})

	register("j", Spec{Class: ClassBranch, Args: "l", Pred: "always"})
	register("jal", Spec{Class: ClassBranchLink, Args: "l", Pred: "always"})
	register("jr", Spec{Class: ClassBranchRel, Args: "l", Pred: "always"})

	for name, pred := range predicates {
		for _, family := range pred.families {
			switch family {
			case 's':
				register("s"+name, Spec{Class: ClassSet, Args: "r" + pred.operands, Pred: name})
			case 'b':
				register("b"+name, Spec{Class: ClassBranch, Args: pred.operands + "l", Pred: name})
				register("b"+name+"al", Spec{Class: ClassBranchLink, Args: pred.operands + "l", Pred: name})
			case 'r':
				register("br"+name, Spec{Class: ClassBranchRel, Args: pred.operands + "l", Pred: name})
			}
		}
	}
}
