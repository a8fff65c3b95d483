// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package machine

import (
	"bufio"
	"io"
	"iter"

	"github.com/fatih/color"

	"github.com/ezrec/rxvm/vm"
)

var (
	matchColor   = color.New(color.FgGreen)
	noMatchColor = color.New(color.FgYellow)
	abortColor   = color.New(color.FgRed, color.Bold)
)

// Tape reads texts one per line from Input, and writes one verdict per
// text to Output.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	err error
}

// Texts returns an iterator over the lines of Input. It stops at the end
// of Input, or at the first read error, which Err then reports.
func (tc *Tape) Texts() iter.Seq[string] {
	return func(yield func(text string) bool) {
		if tc.Input == nil {
			return
		}
		scanner := bufio.NewScanner(tc.Input)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
		tc.err = scanner.Err()
	}
}

// Err returns the read error that stopped Texts, if any.
func (tc *Tape) Err() error {
	return tc.err
}

// Send writes the verdict of a match of text.
func (tc *Tape) Send(text string, res vm.Result, err error) (werr error) {
	switch {
	case err != nil:
		_, werr = abortColor.Fprintf(tc.Output, "%q: %v: %v\n", text, vm.OUTCOME_ABORTED, err)
	case res.Matched():
		_, werr = matchColor.Fprintf(tc.Output, "%q: %v %d\n", text, res.Outcome, res.End)
	default:
		_, werr = noMatchColor.Fprintf(tc.Output, "%q: %v\n", text, res.Outcome)
	}

	return
}
