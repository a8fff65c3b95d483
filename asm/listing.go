// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"iter"

	"github.com/ezrec/rxvm/vm"
)

// Line is a statement of assembled source with its generated instructions.
type Line struct {
	LineNo int       // Source line number.
	Ip     int       // Instruction pointer of the first instruction.
	Words  []string  // Statement words after substitutions.
	Insts  []vm.Inst // Generated instructions.
	Links  []string  // jump/split operands naming labels, "" for numeric.
}

// Listing is an assembled program with its source lines.
type Listing struct {
	Lines []Line
}

// Debug locates the instruction at an ip within the listing.
type Debug struct {
	*Line
	Index int
}

// Debug returns the line holding ip. Debug.Line is nil if none does.
func (lst *Listing) Debug(ip int) (dbg Debug) {
	for n, line := range lst.Lines {
		if ip >= line.Ip && ip < line.Ip+len(line.Insts) {
			dbg = Debug{
				Line:  &lst.Lines[n],
				Index: ip - line.Ip,
			}
			break
		}
	}

	return
}

// LineNo returns the source line number of ip, or 0.
func (lst *Listing) LineNo(ip int) int {
	dbg := lst.Debug(ip)
	if dbg.Line == nil {
		return 0
	}
	return dbg.LineNo
}

// Insts iterates over all instructions with their instruction pointers.
func (lst *Listing) Insts() iter.Seq2[int, vm.Inst] {
	return func(yield func(ip int, inst vm.Inst) bool) {
		for _, line := range lst.Lines {
			for n, inst := range line.Insts {
				if !yield(line.Ip+n, inst) {
					return
				}
			}
		}
	}
}

// Program returns the listing's instructions as a Program.
func (lst *Listing) Program() *vm.Program {
	var insts []vm.Inst
	for _, inst := range lst.Insts() {
		insts = append(insts, inst)
	}

	return vm.NewProgram(insts...)
}
