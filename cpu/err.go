package cpu

import (
	"errors"

	"github.com/ezrec/qovm/translate"
)

var f = translate.From

var (
	// Allocation errors
	ErrCoreSize = errors.New(f("core size not addressable"))

	// Execution errors
	ErrPcRange         = errors.New(f("program counter out of range"))
	ErrIndirectRange   = errors.New(f("indirect address out of range"))
	ErrStoreRange      = errors.New(f("store address out of range"))
	ErrStepBudget      = errors.New(f("exceeded step limit"))
	ErrFunctionUnknown = errors.New(f("unknown function"))
	ErrHalted          = errors.New(f("halted"))

	// Core access errors
	ErrCoreRange = errors.New(f("core address out of range"))

	// Assembler errors
	ErrCodeRange        = errors.New(f("code segment out of range"))
	ErrCharacterInvalid = errors.New(f("character invalid"))
	ErrLiteralRange     = errors.New(f("literal exceeds word"))
	ErrOffsetRange      = errors.New(f("inline offset exceeds byte"))
	ErrModifierDangling = errors.New(f("modifier without function"))
	ErrExpression       = errors.New(f("expression invalid"))
)

// Fault describes a runtime trap and the machine context it happened in.
type Fault struct {
	Err  error       // Nature of the fault.
	PC   Word        // Address of the faulting instruction.
	Code Instruction // Instruction being executed.
	Addr int         // Offending address, when the fault has one.
}

func (err *Fault) Error() string {
	return f("%v at pc 0x%04x (%v %v) addr 0x%04x",
		err.Err, uint16(err.PC), err.Code.Function(), err.Code, err.Addr)
}

func (err *Fault) Unwrap() error {
	return err.Err
}

// ErrAddress reports a core access outside of the core.
type ErrAddress int

func (ea ErrAddress) Error() string {
	return f("address 0x%04x out of range", int(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrCoreRange
}

// ErrSyntax locates an assembler error in the source text.
type ErrSyntax struct {
	LineNo int
	Column int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d:%d '%v' %v", err.LineNo, err.Column, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseExpression is an assembler expression that did not evaluate to a word.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

func (err ErrParseExpression) Is(target error) bool {
	return target == ErrExpression
}

// errChain ties an error kind to its cause on a single line. Both remain
// visible to errors.Is and errors.As.
type errChain struct {
	kind  error
	cause error
}

func chain(kind, cause error) error {
	return &errChain{kind: kind, cause: cause}
}

func (err *errChain) Error() string {
	return f("%v: %v", err.kind, err.cause)
}

func (err *errChain) Unwrap() []error {
	return []error{err.kind, err.cause}
}
