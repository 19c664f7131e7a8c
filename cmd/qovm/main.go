// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/qovm/emulator"
)

func main() {
	var compile string
	var config string
	var size uint
	var debug bool
	var steps int
	var signed bool
	var limit int
	var verbose bool

	flag.StringVar(&compile, "c", "", "source file to assemble and run")
	flag.StringVar(&config, "config", "", "JSON machine configuration")
	flag.UintVar(&size, "n", 0, "core size in words")
	flag.BoolVar(&debug, "debug", false, "Debug mode (sentinel core, step budget)")
	flag.IntVar(&steps, "steps", 0, "Step budget in debug mode")
	flag.BoolVar(&signed, "signed", false, "Signed inline offsets")
	flag.IntVar(&limit, "limit", 0, "Stop after this many steps (0 runs to halt)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 {
		log.Fatalf("%v: -c is required", os.Args[0])
	}

	cfg := emulator.DefaultConfig()
	if len(config) != 0 {
		var err error
		cfg, err = emulator.LoadConfig(config)
		if err != nil {
			log.Fatalf("%v: %v", config, err)
		}
	}

	// Flags given on the command line override the configuration.
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "n":
			cfg.CoreSize = size
		case "debug":
			cfg.Debug = debug
		case "steps":
			cfg.StepBudget = steps
		case "signed":
			cfg.SignedOffset = signed
		case "v":
			cfg.Verbose = verbose
		}
	})

	emu, err := emulator.NewEmulator(cfg)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	inf, err := os.Open(compile)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
	defer inf.Close()

	err = emu.Load(inf)
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	emu.Boot()
	ran, err := emu.Run(limit)
	if err != nil {
		log.Printf("%v", emu.Cpu)
		log.Fatalf("%v: %v", compile, err)
	}

	fmt.Printf("%d steps\n%v", ran, emu.Cpu)
}
