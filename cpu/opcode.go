package cpu

import (
	"fmt"
	"strings"
)

// Word is the unit of storage, code and data.
type Word uint16

// CodeFunc is an instruction function code.
type CodeFunc int

//go:generate go tool stringer -linecomment -type=CodeFunc
const (
	FUNC_LOAD  = CodeFunc(0) // load
	FUNC_EXOP  = CodeFunc(1) // exop
	FUNC_ADD   = CodeFunc(2) // add
	FUNC_STORE = CodeFunc(3) // store
	FUNC_CALL  = CodeFunc(4) // call
	FUNC_JMP   = CodeFunc(5) // jmp
	FUNC_JMPT  = CodeFunc(6) // jmpt
	FUNC_JMPF  = CodeFunc(7) // jmpf
	FUNC_DUMP  = CodeFunc(8) // dump
	FUNC_HALT  = CodeFunc(9) // halt
)

// FUNC_COUNT is the number of encodable function codes.
const FUNC_COUNT = 16

// funcLetter maps each defined function code to its assembler letter.
var funcLetter = [...]byte{
	FUNC_LOAD:  'l',
	FUNC_EXOP:  'x',
	FUNC_ADD:   'a',
	FUNC_STORE: 's',
	FUNC_CALL:  'k',
	FUNC_JMP:   'j',
	FUNC_JMPT:  't',
	FUNC_JMPF:  'f',
	FUNC_DUMP:  'u',
	FUNC_HALT:  'h',
}

// Defined returns true if the function code has a dispatch entry.
func (fn CodeFunc) Defined() bool {
	return fn >= 0 && int(fn) < len(funcLetter)
}

// Letter returns the assembler letter selecting the function, or 0.
func (fn CodeFunc) Letter() byte {
	if !fn.Defined() {
		return 0
	}
	return funcLetter[fn]
}

// CodeMod is a set of address modifier bits.
type CodeMod uint16

const (
	MOD_D = CodeMod(1 << 11) // Address base is the next word.
	MOD_P = CodeMod(1 << 10) // Add the frame pointer.
	MOD_G = CodeMod(1 << 9)  // Add the global base.
	MOD_I = CodeMod(1 << 8)  // Indirect once through the core.

	MOD_MASK = MOD_D | MOD_P | MOD_G | MOD_I
)

// modLetters lists the modifiers in resolution order.
var modLetters = [...]struct {
	mod    CodeMod
	letter byte
}{
	{MOD_D, 'd'},
	{MOD_P, 'p'},
	{MOD_G, 'g'},
	{MOD_I, 'i'},
}

func (mods CodeMod) String() (text string) {
	for _, ml := range modLetters {
		if mods&ml.mod != 0 {
			text += string(ml.letter)
		}
	}
	return
}

// Instruction word layout.
const (
	funcShift  = 12
	funcMask   = 0xf
	offsetMask = 0xff
)

// Instruction is a decoded view of a single instruction word. The bit
// layout is defined here and nowhere else:
//
//	15..12  function
//	11      D
//	10      P
//	9       G
//	8       I
//	7..0    inline offset
type Instruction Word

// MakeInstruction builds an instruction word from its fields.
func MakeInstruction(fn CodeFunc, mods CodeMod, offset uint8) Instruction {
	return Instruction((Word(fn)&funcMask)<<funcShift | Word(mods&MOD_MASK) | Word(offset))
}

// Function returns the function code.
func (in Instruction) Function() CodeFunc {
	return CodeFunc((Word(in) >> funcShift) & funcMask)
}

// Modifiers returns the address modifier bits.
func (in Instruction) Modifiers() CodeMod {
	return CodeMod(Word(in)) & MOD_MASK
}

// Has returns true if all of the modifiers in mods are set.
func (in Instruction) Has(mods CodeMod) bool {
	return in.Modifiers()&mods == mods
}

// Offset returns the raw inline offset byte.
func (in Instruction) Offset() uint8 {
	return uint8(Word(in) & offsetMask)
}

// WithOffset returns the instruction with its inline offset replaced.
func (in Instruction) WithOffset(offset uint8) Instruction {
	return MakeInstruction(in.Function(), in.Modifiers(), offset)
}

// Word returns the encoded instruction word.
func (in Instruction) Word() Word {
	return Word(in)
}

// String returns the instruction in assembler notation. The result
// assembles back to the same word when the function is defined and,
// for D-bit instructions, the unused offset byte is zero.
func (in Instruction) String() string {
	fn := in.Function()
	if !fn.Defined() {
		return fmt.Sprintf("%04X", Word(in))
	}

	var sb strings.Builder
	sb.WriteString(in.Modifiers().String())
	sb.WriteByte(fn.Letter())
	if !in.Has(MOD_D) {
		fmt.Fprintf(&sb, " %02X", in.Offset())
	}
	return sb.String()
}
