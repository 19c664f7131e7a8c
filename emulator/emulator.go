// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/qovm/cpu"
	"github.com/ezrec/qovm/internal"
)

// Host is a service reachable from the program through the exop function.
type Host func(cp *cpu.Cpu) error

// Emulator state. CPU + assembled listing + host services.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Listing of everything loaded since creation.

	Host  map[cpu.Word]Host // Host services, keyed by exop address.
	Dumps []cpu.Snapshot    // Snapshots emitted by dump.

	debug bool
}

// NewEmulator creates a new emulator from a configuration. A nil config
// uses DefaultConfig().
func NewEmulator(config *Config) (emu *Emulator, err error) {
	if config == nil {
		config = DefaultConfig()
	}
	err = config.Validate()
	if err != nil {
		return
	}

	emu = &Emulator{
		Verbose: config.Verbose,
		Program: &cpu.Program{},
		Host:    map[cpu.Word]Host{},
		debug:   config.Debug,
	}

	mode := cpu.OFFSET_UNSIGNED
	if config.SignedOffset {
		mode = cpu.OFFSET_SIGNED
	}

	emu.Cpu, err = cpu.NewCpu(config.CoreSize, config.Debug, config.StepBudget,
		cpu.WithOffsetMode(mode),
		cpu.WithRegions(config.Globals, config.Frames),
		cpu.WithMonitor(cpu.MonitorFunc(emu.dump)),
		cpu.WithExop(emu.exop),
	)
	if err != nil {
		emu = nil
		return
	}
	emu.Cpu.Verbose = config.Verbose

	return
}

// dump records a snapshot emitted by the program.
func (emu *Emulator) dump(snap cpu.Snapshot) {
	if emu.Verbose {
		log.Printf("emulator: dump\n%v", snap)
	}
	emu.Dumps = append(emu.Dumps, snap)
}

// exop dispatches to a host service.
func (emu *Emulator) exop(cp *cpu.Cpu, addr cpu.Word) (err error) {
	host, ok := emu.Host[addr]
	if !ok {
		if emu.Verbose {
			log.Printf("emulator: exop %04x unimplemented", addr)
		}
		return
	}

	return host(cp)
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	debug := "0"
	if emu.debug {
		debug = "1"
	}
	return internal.Concat2(
		maps.All(map[string]string{"DEBUG": debug}),
		emu.Cpu.Defines(),
	)
}

// Load assembles a source stream into the core after anything loaded before.
func (emu *Emulator) Load(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Load(emu.Cpu, input)
	if err != nil {
		return
	}

	emu.Program.Opcodes = append(emu.Program.Opcodes, prog.Opcodes...)

	if emu.Verbose {
		log.Printf("emulator: loaded %d words, end of code %04x",
			len(prog.Binary()), emu.Cpu.EndOfCode())
	}

	return
}

// Boot readies the machine to run the loaded program from address 0, with
// the frame pointer and global base in their regions, and drops recorded
// dumps. The promoted Cpu.Reset only zeroes the registers.
func (emu *Emulator) Boot() {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Boot()
	emu.Dumps = nil
}

// LineNo returns the source line of the word at the program counter.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(int(emu.Cpu.Registers.C))
	if dbg.Opcode == nil {
		return 0
	}
	return dbg.LineNo
}

// Ticks returns the total instructions executed.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Steps()
}

// Tick performs a single step of the emulator. done is set once the
// program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	if len(emu.Program.Opcodes) == 0 {
		err = ErrNoProgram
		return
	}

	lineno := emu.LineNo()
	addr := int(emu.Cpu.Registers.C)
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Addr: addr, Err: err}
		}
	}()

	err = emu.Cpu.Step()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()
	return
}

// Run ticks until the program halts or limit steps have run. A limit of
// 0 runs until halt, fault or an exhausted step budget.
func (emu *Emulator) Run(limit int) (steps int, err error) {
	for limit <= 0 || steps < limit {
		var done bool
		done, err = emu.Tick()
		if err != nil {
			return
		}
		steps++
		if done {
			return
		}
	}

	if emu.Verbose {
		log.Printf("emulator: stopped after %d steps at %v", steps, emu.Cpu.Registers)
	}

	return
}
