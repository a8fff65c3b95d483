// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ezrec/rxvm/vm"
)

// labelOf names the label synthesized for an ip.
func labelOf(ip int) string {
	return fmt.Sprintf("L%04d", ip)
}

// operand renders a jump or split operand as a label if it lands in the program.
func operand(prog *vm.Program, labels map[int]bool, ip, offset int) string {
	target := ip + offset
	if offset > 0 && target < ip || offset < 0 && target > ip {
		return fmt.Sprintf("%+d", offset)
	}
	if target >= 0 && target < prog.Len() {
		labels[target] = true
		return labelOf(target)
	}
	return fmt.Sprintf("%+d", offset)
}

// Disassemble writes prog as assembler text. Assembling the text yields a
// Program equal to prog. Malformed programs are not disassembled.
func Disassemble(w io.Writer, prog *vm.Program) (err error) {
	err = prog.Validate()
	if err != nil {
		return
	}

	labels := map[int]bool{}
	text := make([]string, 0, prog.Len())
	for ip, inst := range prog.Insts() {
		var line string
		switch inst.Op {
		case vm.OP_CHAR:
			line = fmt.Sprintf("%v %v", inst.Op, strconv.QuoteRune(inst.Rune))
		case vm.OP_JUMP:
			line = fmt.Sprintf("%v %v", inst.Op, operand(prog, labels, ip, inst.X))
		case vm.OP_SPLIT:
			line = fmt.Sprintf("%v %v %v", inst.Op,
				operand(prog, labels, ip, inst.X),
				operand(prog, labels, ip, inst.Y))
		case vm.OP_MATCH:
			line = inst.Op.String()
		}
		text = append(text, line)
	}

	for ip, line := range text {
		label := ""
		if labels[ip] {
			label = labelOf(ip) + ":"
		}
		_, err = fmt.Fprintf(w, "%-7s %v\n", label, line)
		if err != nil {
			return
		}
	}

	return
}
