package emulator

import (
	"errors"

	"github.com/ezrec/qovm/translate"
)

var f = translate.From

var (
	ErrNoProgram = errors.New(f("no program loaded"))
)

// ErrRuntime locates a runtime error in the program source. LineNo is 0
// when the faulting address holds no assembled word.
type ErrRuntime struct {
	LineNo int
	Addr   int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("pc 0x%04x %v", err.Addr, err.Err)
	}
	return f("line %d pc 0x%04x %v", err.LineNo, err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
