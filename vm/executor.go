// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"math/bits"
)

// Step is a single state evaluated by the Executor.
type Step struct {
	Steps int  // Steps taken so far, including this one.
	Ip    int  // Instruction pointer.
	Sp    int  // Symbol pointer.
	Depth int  // Pending choice points.
	Inst  Inst // Instruction at Ip.
}

// undo restores a cycle guard mark when a choice point is resumed.
type undo struct {
	ip   int
	mark int
}

// Executor is the backtracking interpreter for a single Program.
//
// An Executor reuses its scratch state between runs, so it must not be
// shared between goroutines. Executors for the same Program may run
// concurrently.
type Executor struct {
	Trace func(step Step) // If set, called for every evaluated state.

	prog  *Program
	cfg   Config
	stack Stack

	// mark[ip] is sp+1 of the latest visit of ip on the current path, or 0.
	// Along a path sp never decreases, so mark[ip] == sp+1 means the path
	// came back to (ip, sp) without consuming input.
	mark  []int
	trail []undo

	memo []uint64 // Visited (ip, sp) bitmap, when memoizing.
}

// NewExecutor creates an executor for prog. Zero limits in cfg are
// replaced by their defaults.
func NewExecutor(prog *Program, cfg Config) (x *Executor) {
	cfg = cfg.normalize()

	x = &Executor{
		prog:  prog,
		cfg:   cfg,
		stack: Stack{Limit: cfg.MaxDepth},
	}

	return
}

// Program returns the program being executed.
func (x *Executor) Program() *Program {
	return x.prog
}

// Config returns the effective configuration.
func (x *Executor) Config() Config {
	return x.cfg
}

// reset prepares the scratch state for a run over input.
func (x *Executor) reset(input Input) {
	x.stack.Reset()

	n := x.prog.Len()
	if cap(x.mark) < n {
		x.mark = make([]int, n)
	} else {
		x.mark = x.mark[:n]
		clear(x.mark)
	}
	x.trail = x.trail[:0]
	x.memo = x.memo[:0]

	if !x.cfg.Memoize || n == 0 {
		return
	}

	width := input.Len() + 1
	hi, size := bits.Mul(uint(n), uint(width))
	if hi != 0 || size > MEMO_LIMIT {
		return
	}

	words := int((size + 63) / 64)
	if cap(x.memo) < words {
		x.memo = make([]uint64, words)
	} else {
		x.memo = x.memo[:words]
		clear(x.memo)
	}
}

// visit records (ip, sp) on the current path.
func (x *Executor) visit(ip, sp int) {
	// Marks set while no choice point is pending are never unwound.
	if !x.stack.Empty() {
		x.trail = append(x.trail, undo{ip: ip, mark: x.mark[ip]})
	}
	x.mark[ip] = sp + 1
}

// unwind restores the cycle guard marks to a trail length.
func (x *Executor) unwind(length int) {
	for len(x.trail) > length {
		last := x.trail[len(x.trail)-1]
		x.trail = x.trail[:len(x.trail)-1]
		x.mark[last.ip] = last.mark
	}
}

// explored tests and sets the memo bit for a state.
func (x *Executor) explored(index int) (seen bool) {
	word, bit := index/64, uint(index%64)
	seen = x.memo[word]&(1<<bit) != 0
	x.memo[word] |= 1 << bit
	return
}

// Run reports whether some path starting at (ip, sp) reaches a match
// instruction.
//
// Out of range instruction or symbol pointers fail the current path only.
// A run that exceeds the step budget or the choice depth, or that finds a
// path cycling without consuming input under CYCLE_ABORT, returns an
// *ErrAbort and OUTCOME_ABORTED.
func (x *Executor) Run(input Input, ip, sp int) (res Result, err error) {
	x.reset(input)

	memoize := len(x.memo) != 0
	width := input.Len() + 1

	defer func() {
		res.Depth = x.stack.High()
	}()

	abort := func(cause error) {
		res.Outcome = OUTCOME_ABORTED
		err = &ErrAbort{Ip: ip, Sp: sp, Steps: res.Steps, Err: cause}
	}

	for {
		if res.Steps >= x.cfg.MaxSteps {
			abort(ErrStepBudgetExceeded)
			return
		}
		res.Steps++

		inst, ok := x.prog.At(ip)
		switch {
		case !ok || sp < 0 || sp > input.Len():
			ok = false
		case x.mark[ip] == sp+1:
			if x.cfg.Cycle == CYCLE_ABORT {
				abort(ErrNonTerminating)
				return
			}
			ok = false
		case memoize && x.explored(ip*width+sp):
			ok = false
		default:
			x.visit(ip, sp)

			if x.Trace != nil {
				x.Trace(Step{Steps: res.Steps, Ip: ip, Sp: sp, Depth: x.stack.Depth(), Inst: inst})
			}

			switch inst.Op {
			case OP_CHAR:
				r, has := input.At(sp)
				if has && r == inst.Rune {
					ip++
					sp++
				} else {
					ok = false
				}
			case OP_JUMP:
				ip, ok = addOffset(ip, inst.X)
			case OP_SPLIT:
				// An overflowing right offset is an alternative that can
				// only fail, so it is not pushed.
				if right, rok := addOffset(ip, inst.Y); rok {
					if x.stack.Full() {
						abort(ErrStackFull)
						return
					}
					x.stack.Push(Frame{Ip: right, Sp: sp, Trail: len(x.trail)})
				}
				ip, ok = addOffset(ip, inst.X)
			case OP_MATCH:
				res.Outcome = OUTCOME_MATCH
				res.End = sp
				return
			default:
				ok = false
			}
		}

		if ok {
			continue
		}

		// Backtrack to the newest choice point.
		frame, popped := x.stack.Pop()
		if !popped {
			res.Outcome = OUTCOME_NO_MATCH
			return
		}
		x.unwind(frame.Trail)
		ip, sp = frame.Ip, frame.Sp
	}
}

// Match runs the program over text from the first instruction and the
// first character.
func (x *Executor) Match(text string) (res Result, err error) {
	return x.Run(NewInput(text), 0, 0)
}

// addOffset returns ip+offset, and false if the sum overflows.
func addOffset(ip, offset int) (int, bool) {
	sum := ip + offset
	if (offset > 0 && sum < ip) || (offset < 0 && sum > ip) {
		return 0, false
	}
	return sum, true
}
