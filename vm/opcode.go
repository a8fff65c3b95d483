// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"fmt"
	"strconv"
)

// Op is an instruction operation.
type Op int

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_CHAR  = Op(0) // char
	OP_JUMP  = Op(1) // jump
	OP_SPLIT = Op(2) // split
	OP_MATCH = Op(3) // match
)

// Valid returns true if the Op is one of the four known operations.
func (op Op) Valid() bool {
	return op >= OP_CHAR && op <= OP_MATCH
}

// Inst is a single instruction with its immediate operands.
type Inst struct {
	Op   Op   // Operation.
	Rune rune // OP_CHAR: the literal character.
	X    int  // OP_JUMP: the offset. OP_SPLIT: the left offset.
	Y    int  // OP_SPLIT: the right offset.
}

// Char creates an instruction that matches the literal character c.
func Char(c rune) Inst {
	return Inst{Op: OP_CHAR, Rune: c}
}

// Jump creates an instruction that adds offset to the instruction pointer.
func Jump(offset int) Inst {
	return Inst{Op: OP_JUMP, X: offset}
}

// Split creates an instruction that tries ip+left first, then ip+right.
func Split(left, right int) Inst {
	return Inst{Op: OP_SPLIT, X: left, Y: right}
}

// Match creates an instruction that ends the current path successfully.
func Match() Inst {
	return Inst{Op: OP_MATCH}
}

// Targets returns the instruction pointers reachable from ip without
// consuming input. ok is false if an offset overflows.
func (inst Inst) Targets(ip int) (targets []int, ok bool) {
	switch inst.Op {
	case OP_CHAR:
		next, ok := addOffset(ip, 1)
		return []int{next}, ok
	case OP_JUMP:
		next, ok := addOffset(ip, inst.X)
		return []int{next}, ok
	case OP_SPLIT:
		left, lok := addOffset(ip, inst.X)
		right, rok := addOffset(ip, inst.Y)
		return []int{left, right}, lok && rok
	}

	return nil, true
}

// offset formats a relative offset with an explicit sign.
func offset(value int) string {
	if value >= 0 {
		return "+" + strconv.Itoa(value)
	}
	return strconv.Itoa(value)
}

// String returns the assembly language representation of this instruction.
func (inst Inst) String() string {
	switch inst.Op {
	case OP_CHAR:
		return fmt.Sprintf("%v %v", inst.Op, strconv.QuoteRune(inst.Rune))
	case OP_JUMP:
		return fmt.Sprintf("%v %v", inst.Op, offset(inst.X))
	case OP_SPLIT:
		return fmt.Sprintf("%v %v %v", inst.Op, offset(inst.X), offset(inst.Y))
	case OP_MATCH:
		return inst.Op.String()
	}

	return fmt.Sprintf("%v %d %d %d", inst.Op, inst.Rune, inst.X, inst.Y)
}
