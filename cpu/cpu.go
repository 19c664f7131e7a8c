package cpu

import (
	"fmt"
	"iter"
	"log"
)

// Monitor receives the register snapshots emitted by the dump function.
type Monitor interface {
	Dump(snap Snapshot)
}

// MonitorFunc adapts a function to the Monitor interface.
type MonitorFunc func(snap Snapshot)

func (mf MonitorFunc) Dump(snap Snapshot) {
	mf(snap)
}

// Exop handles the extension function. addr is the resolved address of
// the instruction.
type Exop func(cpu *Cpu, addr Word) error

// OffsetMode selects how the inline offset byte is interpreted. Unsigned
// offsets reach 0..255 forward of the program counter, signed offsets
// -128..127 around it.
type OffsetMode int

//go:generate go tool stringer -linecomment -type=OffsetMode
const (
	OFFSET_UNSIGNED = OffsetMode(0) // unsigned
	OFFSET_SIGNED   = OffsetMode(1) // signed
)

// Option configures a Cpu at construction.
type Option func(cpu *Cpu)

// WithMonitor sets the receiver of dump snapshots.
func WithMonitor(monitor Monitor) Option {
	return func(cpu *Cpu) {
		cpu.monitor = monitor
	}
}

// WithExop sets the handler of the extension function.
func WithExop(exop Exop) Option {
	return func(cpu *Cpu) {
		cpu.exop = exop
	}
}

// WithOffsetMode sets the inline offset interpretation.
func WithOffsetMode(mode OffsetMode) Option {
	return func(cpu *Cpu) {
		cpu.OffsetMode = mode
	}
}

// WithRegions sizes the global variable and call stack regions.
func WithRegions(globals, frames int) Option {
	return func(cpu *Cpu) {
		cpu.Core.SetRegions(globals, frames)
	}
}

// Registers is the register file.
type Registers struct {
	A Word // Accumulator.
	B Word // Previous accumulator.
	C Word // Program counter.
	D Word // Last resolved address.
	P Word // Frame pointer.
	G Word // Global base.
}

func (reg Registers) String() string {
	return fmt.Sprintf("A:%04X B:%04X C:%04X D:%04X P:%04X G:%04X",
		reg.A, reg.B, reg.C, reg.D, reg.P, reg.G)
}

// Cpu is the state of one virtual machine: core, registers, write cursor
// and step budget. Instances share nothing.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Core      *Core     // Core memory.
	Registers Registers // Register file.

	Debug      bool       // Debug mode: sentinel fill and step budget.
	Budget     int        // Configured step budget; 0 is unlimited.
	OffsetMode OffsetMode // Inline offset interpretation.

	monitor   Monitor
	exop      Exop
	remaining int
	steps     int
	halted    bool
	endOfCode int
}

// NewCpu allocates a machine with a core of size words. In debug mode the
// core is filled with SENTINEL and steps, when positive, bounds the number
// of instructions executed; outside of debug mode steps is ignored.
func NewCpu(size uint, debug bool, steps int, opts ...Option) (cpu *Cpu, err error) {
	var fill Word
	if debug {
		fill = SENTINEL
	}

	core, err := NewCore(size, fill)
	if err != nil {
		return
	}

	cpu = &Cpu{
		Core:  core,
		Debug: debug,
	}
	if debug {
		cpu.Budget = max(steps, 0)
		cpu.remaining = cpu.Budget
	}

	for _, opt := range opts {
		opt(cpu)
	}

	return
}

// Defines returns the layout equates of the machine for the assembler.
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		core := cpu.Core
		defines := [...][2]string{
			{"CORE_SIZE", fmt.Sprintf("%#x", core.Size())},
			{"GLOBALS", fmt.Sprintf("%#x", core.Globals.Base)},
			{"GLOBALS_SIZE", fmt.Sprintf("%#x", core.Globals.Size)},
			{"FRAMES", fmt.Sprintf("%#x", core.Frames.Base)},
			{"FRAMES_SIZE", fmt.Sprintf("%#x", core.Frames.Size)},
		}
		for _, def := range defines {
			if !yield(def[0], def[1]) {
				return
			}
		}
	}
}

// String returns the current register state as a string.
func (cpu *Cpu) String() string {
	return cpu.Snapshot().String()
}

// Reset clears the register file and the halted state. The core, the
// write cursor and the remaining step budget are untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Registers = Registers{}
	cpu.halted = false
}

// Boot resets the machine and points the global base and frame pointer
// at their reserved regions.
func (cpu *Cpu) Boot() {
	cpu.Reset()

	cpu.Registers.G = Word(cpu.Core.Globals.Base)
	cpu.Registers.P = Word(cpu.Core.Frames.Base)

	if cpu.Verbose {
		log.Printf("cpu: boot G=%04x P=%04x", cpu.Registers.G, cpu.Registers.P)
	}
}

// Halted returns true once a halt instruction has executed.
func (cpu *Cpu) Halted() bool {
	return cpu.halted
}

// Steps returns the number of instructions executed.
func (cpu *Cpu) Steps() int {
	return cpu.steps
}

// Remaining returns the unused step budget, or -1 if unlimited.
func (cpu *Cpu) Remaining() int {
	if !cpu.Debug || cpu.Budget == 0 {
		return -1
	}
	return cpu.remaining
}

// EndOfCode returns the write cursor.
func (cpu *Cpu) EndOfCode() int {
	return cpu.endOfCode
}

// Emit appends a word at the write cursor.
func (cpu *Cpu) Emit(value Word) (addr int, err error) {
	if cpu.endOfCode >= cpu.Core.Size() {
		err = chain(ErrCodeRange, ErrAddress(cpu.endOfCode))
		return
	}

	addr = cpu.endOfCode
	err = cpu.Core.Write(addr, value)
	if err != nil {
		return
	}
	cpu.endOfCode++

	if cpu.Verbose {
		log.Printf("cpu: emit %04x <= %04x", addr, value)
	}

	return
}

// offset returns the inline offset as an address displacement.
func (cpu *Cpu) offset(code Instruction) Word {
	if cpu.OffsetMode == OFFSET_SIGNED {
		return Word(int8(code.Offset()))
	}
	return Word(code.Offset())
}

// resolve computes the effective address of code, applying the modifiers
// in the order D, P, G, I. The program counter must already point past
// the instruction word; a D-bit literal advances it once more.
func (cpu *Cpu) resolve(code Instruction) (addr Word, err error) {
	reg := &cpu.Registers

	if code.Has(MOD_D) {
		addr = reg.C
		var literal Word
		literal, err = cpu.Core.Read(int(reg.C))
		if err != nil {
			err = chain(ErrPcRange, err)
			return
		}
		reg.C++
		addr = literal
	} else {
		addr = reg.C + cpu.offset(code)
	}

	if code.Has(MOD_P) {
		addr += reg.P
	}

	if code.Has(MOD_G) {
		addr += reg.G
	}

	if code.Has(MOD_I) {
		var ptr Word
		ptr, err = cpu.Core.Read(int(addr))
		if err != nil {
			err = chain(ErrIndirectRange, err)
			return
		}
		addr = ptr
	}

	return
}

// Step fetches, decodes, resolves and dispatches a single instruction.
func (cpu *Cpu) Step() (err error) {
	if cpu.halted {
		err = ErrHalted
		return
	}

	reg := &cpu.Registers
	pc := reg.C

	var code Instruction
	addr := int(pc)

	defer func() {
		if err != nil {
			err = &Fault{Err: err, PC: pc, Code: code, Addr: addr}
		}
	}()

	if cpu.Debug && cpu.Budget > 0 {
		if cpu.remaining <= 0 {
			err = ErrStepBudget
			return
		}
		cpu.remaining--
	}

	word, err := cpu.Core.Read(int(pc))
	if err != nil {
		err = chain(ErrPcRange, err)
		return
	}
	code = Instruction(word)
	reg.C++

	if cpu.Verbose {
		log.Printf("%04x: %v", pc, code)
	}

	// A failed literal fetch reports the literal address; a failed
	// indirection reports the pointer.
	ea, err := cpu.resolve(code)
	addr = int(ea)
	if err != nil {
		return
	}
	reg.D = ea

	switch fn := code.Function(); fn {
	case FUNC_LOAD:
		reg.B = reg.A
		reg.A = reg.D
	case FUNC_ADD:
		reg.A += reg.D
	case FUNC_STORE:
		err = cpu.Core.Write(int(reg.D), reg.A)
		if err != nil {
			err = chain(ErrStoreRange, err)
			return
		}
	case FUNC_CALL:
		reg.D += reg.P
		frame := int(reg.D)
		addr = frame
		for _, link := range [2]int{frame, frame + 1} {
			if !cpu.Core.Valid(link) {
				addr = link
				err = chain(ErrStoreRange, ErrAddress(link))
				return
			}
		}
		if err = cpu.Core.Write(frame, reg.P); err != nil {
			return
		}
		if err = cpu.Core.Write(frame+1, reg.C); err != nil {
			return
		}
		reg.P = reg.D
		reg.C = reg.A
	case FUNC_JMP:
		reg.C = reg.D
	case FUNC_JMPT:
		if reg.A != 0 {
			reg.C = reg.D
		}
	case FUNC_JMPF:
		if reg.A == 0 {
			reg.C = reg.D
		}
	case FUNC_DUMP:
		snap := cpu.Snapshot()
		if cpu.monitor != nil {
			cpu.monitor.Dump(snap)
		} else if cpu.Verbose {
			log.Printf("cpu: dump %v", snap.Registers)
		}
	case FUNC_EXOP:
		if cpu.exop != nil {
			err = cpu.exop(cpu, reg.D)
			if err != nil {
				return
			}
		} else if cpu.Verbose {
			log.Printf("cpu: exop %04x unimplemented", reg.D)
		}
	case FUNC_HALT:
		cpu.halted = true
		if cpu.Verbose {
			log.Printf("cpu: halt at %04x", pc)
		}
	default:
		err = ErrFunctionUnknown
		return
	}

	cpu.steps++

	return
}
