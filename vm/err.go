// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"

	"github.com/ezrec/rxvm/translate"
)

var f = translate.From

var (
	// Run aborts
	ErrStepBudgetExceeded = errors.New(f("step budget exceeded"))
	ErrNonTerminating     = errors.New(f("non-terminating program"))
	ErrStackFull          = errors.New(f("choice stack full"))

	// Load-time validation
	ErrProgramMalformed = errors.New(f("program malformed"))
	ErrOpInvalid        = errors.New(f("op invalid"))
	ErrRuneInvalid      = errors.New(f("rune invalid"))
)

// ErrAbort reports where a run gave up.
type ErrAbort struct {
	Ip    int
	Sp    int
	Steps int
	Err   error
}

func (err *ErrAbort) Error() string {
	return f("aborted @ ip %d sp %d after %d steps: %v", err.Ip, err.Sp, err.Steps, err.Err)
}

func (err *ErrAbort) Unwrap() error {
	return err.Err
}

// ErrInst locates an unusable instruction.
type ErrInst struct {
	Ip   int
	Inst Inst
	Err  error
}

func (err *ErrInst) Error() string {
	return f("ip %d '%v' %v", err.Ip, err.Inst, err.Err)
}

func (err *ErrInst) Unwrap() error {
	return err.Err
}

type ErrCyclePolicy string

func (err ErrCyclePolicy) Error() string {
	return f("'%v' is not a cycle policy", string(err))
}
