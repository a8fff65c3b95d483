// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package machine binds assembled listings to the rxvm executor.
package machine

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/rxvm/asm"
	"github.com/ezrec/rxvm/internal"
	"github.com/ezrec/rxvm/vm"
)

var _machine_defines = map[string]string{
	"DEFAULT_MAX_STEPS": fmt.Sprintf("%v", vm.DEFAULT_MAX_STEPS),
	"DEFAULT_MAX_DEPTH": fmt.Sprintf("%v", vm.DEFAULT_MAX_DEPTH),
}

// Machine state. Listing + configuration.
type Machine struct {
	Verbose bool         // If set, enables verbose logging.
	Config  vm.Config    // Resource limits for each match.
	Listing *asm.Listing // Reference to the loaded program listing.
}

// NewMachine creates a new machine with the default configuration.
func NewMachine() (m *Machine) {
	m = &Machine{
		Config:  vm.DefaultConfig(),
		Listing: &asm.Listing{},
	}

	return
}

// configDefines returns the effective limits of the configuration.
func (m *Machine) configDefines() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		steps := m.Config.MaxSteps
		if steps <= 0 {
			steps = vm.DEFAULT_MAX_STEPS
		}
		depth := m.Config.MaxDepth
		if depth <= 0 {
			depth = steps
		}
		_ = yield("MAX_STEPS", fmt.Sprintf("%v", steps)) &&
			yield("MAX_DEPTH", fmt.Sprintf("%v", depth))
	}
}

// Defines returns an iterator over all of the defines
func (m *Machine) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_machine_defines),
		m.configDefines(),
	)
}

// Load assembles program text, with the machine defines predefined.
func (m *Machine) Load(r io.Reader) (err error) {
	assembler := &asm.Assembler{Verbose: m.Verbose}
	for equ, value := range m.Defines() {
		assembler.Predefine(equ, value)
	}

	lst, err := assembler.Parse(r)
	if err != nil {
		return
	}

	m.Listing = lst

	return
}

// Program returns the loaded program.
func (m *Machine) Program() *vm.Program {
	return m.Listing.Program()
}

// LineNo returns the source line number of an instruction pointer.
func (m *Machine) LineNo(ip int) int {
	return m.Listing.LineNo(ip)
}

// Match runs the loaded program against text from its start.
func (m *Machine) Match(text string) (res vm.Result, err error) {
	prog := m.Program()

	var lineno int
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Err: err}
		}
	}()

	err = prog.Validate()
	if err != nil {
		var inst *vm.ErrInst
		if errors.As(err, &inst) {
			lineno = m.LineNo(inst.Ip)
		}
		return
	}

	exec := vm.NewExecutor(prog, m.Config)
	if m.Verbose {
		exec.Trace = func(step vm.Step) {
			log.Printf("%v: %d ip %d sp %d depth %d: %v",
				m.LineNo(step.Ip), step.Steps, step.Ip, step.Sp, step.Depth, step.Inst)
		}
	}

	res, err = exec.Match(text)
	if err != nil {
		var abort *vm.ErrAbort
		if errors.As(err, &abort) {
			lineno = m.LineNo(abort.Ip)
		}
		return
	}

	if m.Verbose {
		log.Printf("%q: %v", text, res)
	}

	return
}
