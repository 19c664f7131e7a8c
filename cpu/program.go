package cpu

import (
	"iter"
)

// Opcode is one assembled item: an instruction with its optional operand
// word, or a raw data word.
type Opcode struct {
	LineNo int    // Source line of the first token.
	Column int    // Source column of the first token.
	Addr   int    // Core address of the first word.
	Text   string // Canonical source text.
	Words  []Word // Emitted words.
	Data   bool   // Raw data word, not an instruction.
}

// Program is the listing produced by the assembler.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the word at a core address in the listing.
type Debug struct {
	*Opcode
	Index int
}

// Debug returns the listing entry covering addr. The Opcode is nil if no
// assembled word lives at addr.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if addr >= op.Addr && addr < op.Addr+len(op.Words) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  addr - op.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the emitted words in address order.
func (prog *Program) Binary() (bins []Word) {
	for _, word := range prog.Words() {
		bins = append(bins, word)
	}

	return
}

// Words iterates over every emitted word with its core address.
func (prog *Program) Words() iter.Seq2[int, Word] {
	return func(yield func(addr int, word Word) bool) {
		for _, op := range prog.Opcodes {
			for n, word := range op.Words {
				if !yield(op.Addr+n, word) {
					return
				}
			}
		}
	}
}
