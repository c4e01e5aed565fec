package emulator

import (
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/FlorpyDorpinator/ic10/chip"
	"github.com/FlorpyDorpinator/ic10/device"
)

// LoadBench executes a bench script file against the housing's network.
func (house *Housing) LoadBench(path string) (err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return
	}
	return house.ExecBench(path, string(src))
}

// ExecBench executes a Starlark bench script that declares the
// simulated device network. Two builtins are predeclared:
//
//	device(pin, prefab=..., name=..., batch=..., memory=..., <LogicType>=value, ...)
//	base(<LogicType>=value, ...)
//
// Unrecognized keyword arguments are logic type names with their
// initial values. A device without a pin is reachable only through the
// batch list.
func (house *Housing) ExecBench(filename string, src string) (err error) {
	thread := &starlark.Thread{Name: "bench"}
	opts := &syntax.FileOptions{}

	predeclared := starlark.StringDict{
		"device": starlark.NewBuiltin("device", house.benchDevice),
		"base":   starlark.NewBuiltin("base", house.benchBase),
	}

	_, err = starlark.ExecFileOptions(opts, thread, filename, src, predeclared)
	return
}

// benchHash accepts either a literal hash or a string to hash.
func benchHash(key string, value starlark.Value) (hash int32, err error) {
	switch v := value.(type) {
	case starlark.String:
		hash = chip.HashString(string(v))
	case starlark.Int:
		i64, ok := v.Int64()
		if !ok {
			err = ErrBenchValue{Key: key}
			return
		}
		hash = int32(i64)
	default:
		err = ErrBenchValue{Key: key}
	}
	return
}

func benchFloat(key string, value starlark.Value) (f64 float64, err error) {
	f64, ok := starlark.AsFloat(value)
	if !ok {
		err = ErrBenchValue{Key: key}
	}
	return
}

// benchLogic fills a Sim's logic table from the leftover keyword
// arguments of a bench builtin.
func benchLogic(sim *device.Sim, key string, value starlark.Value) (err error) {
	lt, ok := device.LogicTypeOf(key)
	if !ok {
		err = ErrBenchValue{Key: key}
		return
	}
	f64, err := benchFloat(key, value)
	if err != nil {
		return
	}
	if sim.Logic == nil {
		sim.Logic = make(map[device.LogicType]float64)
	}
	sim.Logic[lt] = f64
	return
}

func benchSlots(sim *device.Sim, key string, value starlark.Value) (err error) {
	list, ok := value.(*starlark.List)
	if !ok {
		err = ErrBenchValue{Key: key}
		return
	}
	for entry := range list.Elements() {
		dict, ok := entry.(*starlark.Dict)
		if !ok {
			err = ErrBenchValue{Key: key}
			return
		}
		slot := make(map[device.SlotLogicType]float64, dict.Len())
		for _, item := range dict.Items() {
			name, ok := item[0].(starlark.String)
			if !ok {
				err = ErrBenchValue{Key: key}
				return
			}
			slt, ok := device.SlotLogicTypeOf(string(name))
			if !ok {
				err = ErrBenchValue{Key: string(name)}
				return
			}
			var f64 float64
			f64, err = benchFloat(string(name), item[1])
			if err != nil {
				return
			}
			slot[slt] = f64
		}
		sim.Slots = append(sim.Slots, slot)
	}
	return
}

func (house *Housing) benchDevice(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (val starlark.Value, err error) {
	val = starlark.None

	sim := &device.Sim{}
	pin := -1
	batch := false

	if len(args) > 1 {
		err = ErrBenchValue{Key: b.Name()}
		return
	}
	if len(args) == 1 {
		if err = starlark.AsInt(args[0], &pin); err != nil {
			return
		}
	}

	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		value := kv[1]

		switch key {
		case "pin":
			err = starlark.AsInt(value, &pin)
		case "prefab":
			sim.Prefab, err = benchHash(key, value)
		case "name":
			sim.Name, err = benchHash(key, value)
		case "batch":
			batch = bool(value.Truth())
		case "memory":
			size := 0
			err = starlark.AsInt(value, &size)
			if err == nil {
				sim.Memory = make([]float64, size)
			}
		case "slots":
			err = benchSlots(sim, key, value)
		case "readonly":
			err = benchReadOnly(sim, key, value)
		default:
			err = benchLogic(sim, key, value)
		}
		if err != nil {
			return
		}
	}

	if pin >= 0 {
		if pin >= device.PinCount {
			err = ErrBenchPin(pin)
			return
		}
		house.Net.Pins[pin] = sim
	}
	if batch {
		house.Net.Batched = append(house.Net.Batched, sim)
	}

	return
}

func benchReadOnly(sim *device.Sim, key string, value starlark.Value) (err error) {
	list, ok := value.(*starlark.List)
	if !ok {
		err = ErrBenchValue{Key: key}
		return
	}
	for entry := range list.Elements() {
		name, ok := entry.(starlark.String)
		if !ok {
			err = ErrBenchValue{Key: key}
			return
		}
		lt, ok := device.LogicTypeOf(string(name))
		if !ok {
			err = ErrBenchValue{Key: string(name)}
			return
		}
		if sim.ReadOnly == nil {
			sim.ReadOnly = make(map[device.LogicType]bool)
		}
		sim.ReadOnly[lt] = true
	}
	return
}

func (house *Housing) benchBase(thread *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (val starlark.Value, err error) {
	val = starlark.None

	if len(args) != 0 {
		err = ErrBenchValue{Key: b.Name()}
		return
	}

	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		err = benchLogic(house.Net.Base, key, kv[1])
		if err != nil {
			return
		}
	}

	return
}
