package cpu

import (
	"fmt"
)

// Snapshot is a read-only copy of the machine state.
type Snapshot struct {
	Registers Registers
	Steps     int    // Instructions executed.
	Remaining int    // Unused step budget, -1 if unlimited.
	Halted    bool   // Halt has executed.
	EndOfCode int    // Write cursor.
	CoreSize  int    // Words of core.
	CoreSum   uint32 // Core fingerprint.
}

// Snapshot captures the current machine state.
func (cpu *Cpu) Snapshot() Snapshot {
	return Snapshot{
		Registers: cpu.Registers,
		Steps:     cpu.steps,
		Remaining: cpu.Remaining(),
		Halted:    cpu.halted,
		EndOfCode: cpu.endOfCode,
		CoreSize:  cpu.Core.Size(),
		CoreSum:   cpu.Core.Sum(),
	}
}

func (snap Snapshot) String() (text string) {
	reg := snap.Registers
	rows := []struct {
		name  string
		value string
	}{
		{"a", fmt.Sprintf("%04X", reg.A)},
		{"b", fmt.Sprintf("%04X", reg.B)},
		{"c", fmt.Sprintf("%04X", reg.C)},
		{"d", fmt.Sprintf("%04X", reg.D)},
		{"p", fmt.Sprintf("%04X", reg.P)},
		{"g", fmt.Sprintf("%04X", reg.G)},
		{"steps", fmt.Sprintf("%d", snap.Steps)},
		{"halt", fmt.Sprintf("%v", snap.Halted)},
		{"code", fmt.Sprintf("%04X/%04X", snap.EndOfCode, snap.CoreSize)},
		{"sum", fmt.Sprintf("%08X", snap.CoreSum)},
	}
	for _, row := range rows {
		text += fmt.Sprintf("% 5s: %v\n", row.name, row.value)
	}
	return
}

// Cell is a core word together with its instruction decode.
type Cell struct {
	Addr int
	Word Word
}

// Code returns the word decoded as an instruction.
func (cell Cell) Code() Instruction {
	return Instruction(cell.Word)
}

func (cell Cell) String() string {
	code := cell.Code()
	return fmt.Sprintf("%04X: %04X %-5v %-4v %v",
		cell.Addr, uint16(cell.Word), code.Function(), code.Modifiers(), code)
}

// Inspect reads a single core cell without changing machine state.
func (cpu *Cpu) Inspect(addr int) (cell Cell, err error) {
	word, err := cpu.Core.Read(addr)
	if err != nil {
		return
	}

	cell = Cell{Addr: addr, Word: word}
	return
}
