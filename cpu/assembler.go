// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"io"
	"log"
	"maps"
	"math"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/qovm/internal"
)

// funcMap maps assembler letters to function codes.
var funcMap = map[byte]CodeFunc{
	'l': FUNC_LOAD,
	'x': FUNC_EXOP,
	'a': FUNC_ADD,
	's': FUNC_STORE,
	'k': FUNC_CALL,
	'j': FUNC_JMP,
	't': FUNC_JMPT,
	'f': FUNC_JMPF,
	'u': FUNC_DUMP,
	'h': FUNC_HALT,
}

// modMap maps assembler letters to address modifiers.
var modMap = map[byte]CodeMod{
	'd': MOD_D,
	'p': MOD_P,
	'g': MOD_G,
	'i': MOD_I,
}

// isHex is true for the digits of a literal. Lower case letters are
// mnemonics, so only upper case hex digits are accepted.
func isHex(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'F')
}

// Assembler is a single pass loader for the qovm mnemonic stream.
//
// Grammar:
//
//	program     := item*
//	item        := instruction | literal
//	instruction := modifier* function [operand]
//	operand     := literal
//	literal     := HEX+ | '$(' expression ')'
//
// A literal is an operand only when it is the very next token after the
// function letter; whitespace and comments may intervene. Without the D
// modifier the operand is the inline offset, with D it is emitted as the
// following word. Every other literal is emitted as a raw data word.
type Assembler struct {
	Verbose bool              // If set, verbosely logs the assembler actions.
	Equate  map[string]string // Map of equates visible to expressions.

	predefine map[string]string

	// Pending state, carried across lines.
	cpu     *Cpu
	prog    *Program
	mods    CodeMod
	modText string
	modLine int
	modCol  int
	operand *Opcode // Instruction that may still take an operand.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the integer value of an equate.
func valueOf(text string) (value int64, err error) {
	value, err = strconv.ParseInt(text, 0, 32)
	return
}

// parenEval does assembly time $(...) evaluations.
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{Name: "qovm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := valueOf(str)
		if perr != nil {
			// Not every equate has to be a number.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	pred["HERE"] = starlark.MakeInt(asm.cpu.EndOfCode())

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = chain(ErrParseExpression(expr), err)
		return
	}
	st_int, ok := dict["rc"].(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	v64, ok := st_int.Int64()
	if !ok || v64 > 0xffff || v64 < -0x8000 {
		err = chain(ErrParseExpression(expr), ErrLiteralRange)
		return
	}
	value = Word(v64)
	return
}

// emit appends a word and records it in the listing.
func (asm *Assembler) emit(op *Opcode, value Word) (err error) {
	addr, err := asm.cpu.Emit(value)
	if err != nil {
		return
	}
	if len(op.Words) == 0 {
		op.Addr = addr
	}
	op.Words = append(op.Words, value)
	return
}

// literal consumes a literal token: bind it as an operand or emit it as data.
func (asm *Assembler) literal(value Word, text string, lineno, column int) (err error) {
	op := asm.operand
	asm.operand = nil

	if op == nil {
		data := Opcode{LineNo: lineno, Column: column, Text: text, Data: true}
		err = asm.emit(&data, value)
		if err != nil {
			return
		}
		asm.prog.Opcodes = append(asm.prog.Opcodes, data)
		return
	}

	op.Text += " " + text

	code := Instruction(op.Words[0])
	if code.Has(MOD_D) {
		err = asm.emit(op, value)
		return
	}

	if value > 0xff {
		err = ErrOffsetRange
		return
	}
	code = code.WithOffset(uint8(value))
	err = asm.cpu.Core.Write(op.Addr, code.Word())
	if err != nil {
		return
	}
	op.Words[0] = code.Word()

	return
}

// function consumes a function letter and emits its instruction word.
func (asm *Assembler) function(fn CodeFunc, lineno, column int) (err error) {
	op := Opcode{
		LineNo: lineno,
		Column: column,
		Text:   asm.modText + string(fn.Letter()),
	}
	if asm.mods != 0 {
		op.Column = asm.modCol
		op.LineNo = asm.modLine
	}

	code := MakeInstruction(fn, asm.mods, 0)
	asm.mods = 0
	asm.modText = ""

	err = asm.emit(&op, code.Word())
	if err != nil {
		return
	}

	if asm.Verbose {
		log.Printf("asm: %04x: %v", op.Addr, code)
	}

	asm.prog.Opcodes = append(asm.prog.Opcodes, op)
	asm.operand = &asm.prog.Opcodes[len(asm.prog.Opcodes)-1]

	return
}

// modifier consumes a modifier letter.
func (asm *Assembler) modifier(mod CodeMod, lineno, column int) {
	if asm.mods == 0 {
		asm.modLine = lineno
		asm.modCol = column
	}
	asm.mods |= mod
	asm.modText = (asm.mods).String()
	asm.operand = nil
}

// parseLine scans one line of source. column is updated to the token
// being processed for error reporting.
func (asm *Assembler) parseLine(line string, lineno int, column *int) (err error) {
	for n := 0; n < len(line); n++ {
		ch := line[n]
		*column = n + 1

		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f':
			continue
		case ch == ';':
			return
		case isHex(ch):
			end := n
			for end < len(line) && isHex(line[end]) {
				end++
			}
			text := line[n:end]
			var v64 uint64
			v64, err = strconv.ParseUint(text, 16, 64)
			if err != nil || v64 > 0xffff {
				err = ErrLiteralRange
				return
			}
			err = asm.literal(Word(v64), text, lineno, n+1)
			if err != nil {
				return
			}
			n = end - 1
		case ch == '$':
			if n+1 >= len(line) || line[n+1] != '(' {
				err = ErrCharacterInvalid
				return
			}
			depth := 0
			end := -1
			for m := n + 1; m < len(line) && end < 0; m++ {
				switch line[m] {
				case '(':
					depth++
				case ')':
					depth--
					if depth == 0 {
						end = m
					}
				}
			}
			if end < 0 {
				err = ErrParseExpression(line[n+2:])
				return
			}
			var value Word
			value, err = asm.parenEval(line[n+2 : end])
			if err != nil {
				return
			}
			err = asm.literal(value, line[n:end+1], lineno, n+1)
			if err != nil {
				return
			}
			n = end
		default:
			if fn, ok := funcMap[ch]; ok {
				err = asm.function(fn, lineno, n+1)
				if err != nil {
					return
				}
				continue
			}
			if mod, ok := modMap[ch]; ok {
				asm.modifier(mod, lineno, n+1)
				continue
			}
			err = ErrCharacterInvalid
			return
		}
	}

	return
}

// Load assembles the input stream, appending the words to the core of cpu
// at its write cursor. The listing of the emitted words is returned.
func (asm *Assembler) Load(cpu *Cpu, input io.Reader) (prog *Program, err error) {
	// A single line may hold a program for the whole core.
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), math.MaxInt)

	var line string
	var lineno int
	var column int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Column: column, Line: line, Err: err}
		}
		asm.cpu = nil
		asm.operand = nil
	}()

	asm.cpu = cpu
	asm.prog = &Program{}
	asm.mods = 0
	asm.modText = ""
	asm.operand = nil
	asm.Equate = maps.Collect(internal.Concat2(cpu.Defines(), maps.All(asm.predefine)))

	for scanner.Scan() {
		line = scanner.Text()
		lineno += 1
		column = 0

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, line)
		}

		err = asm.parseLine(line, lineno, &column)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		// The line that failed to read.
		lineno++
		column = 0
		line = ""
		return
	}

	if asm.mods != 0 {
		lineno = asm.modLine
		column = asm.modCol
		line = ""
		err = ErrModifierDangling
		return
	}

	prog = asm.prog

	return
}

// Assemble is a convenience for loading source text into cpu.
func Assemble(cpu *Cpu, source string) (prog *Program, err error) {
	asm := &Assembler{Verbose: cpu.Verbose}
	return asm.Load(cpu, strings.NewReader(source))
}
