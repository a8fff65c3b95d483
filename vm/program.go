// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"
)

// Program is an immutable, zero-indexed sequence of instructions.
type Program struct {
	insts []Inst
}

// NewProgram creates a program from a copy of insts. It never fails;
// addresses are checked by the Executor when they are used.
func NewProgram(insts ...Inst) *Program {
	return &Program{insts: slices.Clone(insts)}
}

// Len returns the number of instructions.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.insts)
}

// At returns the instruction at ip, and false if ip is out of range.
func (prog *Program) At(ip int) (inst Inst, ok bool) {
	if ip < 0 || ip >= prog.Len() {
		return
	}

	return prog.insts[ip], true
}

// Insts iterates over the instructions with their instruction pointers.
func (prog *Program) Insts() iter.Seq2[int, Inst] {
	return func(yield func(ip int, inst Inst) bool) {
		for ip := range prog.Len() {
			if !yield(ip, prog.insts[ip]) {
				return
			}
		}
	}
}

// Equal returns true if both programs hold the same instructions.
func (prog *Program) Equal(other *Program) bool {
	return slices.Equal(prog.slice(), other.slice())
}

func (prog *Program) slice() []Inst {
	if prog == nil {
		return nil
	}
	return prog.insts
}

// Validate reports instructions that can never execute usefully: unknown
// operations, and characters that are not Unicode scalar values.
// Jump and split offsets are never rejected.
func (prog *Program) Validate() (err error) {
	var errs []error
	for ip, inst := range prog.Insts() {
		switch {
		case !inst.Op.Valid():
			errs = append(errs, &ErrInst{Ip: ip, Inst: inst, Err: ErrOpInvalid})
		case inst.Op == OP_CHAR && !utf8.ValidRune(inst.Rune):
			errs = append(errs, &ErrInst{Ip: ip, Inst: inst, Err: ErrRuneInvalid})
		}
	}

	if len(errs) != 0 {
		err = errors.Join(append([]error{ErrProgramMalformed}, errs...)...)
	}

	return
}

// String returns the program listing, one instruction per line.
func (prog *Program) String() string {
	var sb strings.Builder
	for ip, inst := range prog.Insts() {
		fmt.Fprintf(&sb, "%04d: %v\n", ip, inst)
	}
	return sb.String()
}
