// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"fmt"
)

// Outcome is the verdict of a run.
type Outcome int

//go:generate go tool stringer -linecomment -type=Outcome
const (
	OUTCOME_NO_MATCH = Outcome(0) // no match
	OUTCOME_MATCH    = Outcome(1) // match
	OUTCOME_ABORTED  = Outcome(2) // aborted
)

// Result is the outcome of a run.
type Result struct {
	Outcome Outcome
	End     int // Symbol pointer at the match instruction.
	Steps   int // States evaluated.
	Depth   int // Deepest choice-point stack seen.
}

// Matched returns true if the run reached a match instruction.
func (res Result) Matched() bool {
	return res.Outcome == OUTCOME_MATCH
}

// String provides a programmer-friendly debugging string for the Result.
func (res Result) String() string {
	if res.Matched() {
		return fmt.Sprintf("{%v end:%d steps:%d depth:%d}", res.Outcome, res.End, res.Steps, res.Depth)
	}
	return fmt.Sprintf("{%v steps:%d depth:%d}", res.Outcome, res.Steps, res.Depth)
}
