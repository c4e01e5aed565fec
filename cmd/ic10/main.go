package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/FlorpyDorpinator/ic10/emulator"
)

func main() {
	var bench string
	var ticks int
	var budget int
	var verbose bool

	flag.StringVar(&bench, "b", "", "bench script declaring the device network")
	flag.IntVar(&ticks, "n", 0, "maximum ticks to run (0 = until halted)")
	flag.IntVar(&budget, "i", emulator.DefaultBudget, "instructions per tick")
	flag.BoolVar(&verbose, "v", false, "verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: usage: ic10 [options] program.ic10", os.Args[0])
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v: %v", flag.Arg(0), err)
	}

	house := emulator.NewHousing()
	house.Verbose = verbose

	if len(bench) != 0 {
		err = house.LoadBench(bench)
		if err != nil {
			log.Fatalf("%v: %v", bench, err)
		}
	}

	err = house.Load(string(source))
	if err != nil {
		log.Fatalf("%v: %v", flag.Arg(0), err)
	}

	for tick := 0; ticks == 0 || tick < ticks; tick++ {
		halted, err := house.TickBudget(budget)
		if err != nil {
			log.Fatalf("%v: %v", flag.Arg(0), err)
		}
		if halted {
			break
		}
	}

	fmt.Print(house.Chip.String())
}
