// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Matches reports whether prog matches a prefix of text, using
// DefaultConfig. Aborted runs and malformed programs report false.
//
// A program is malformed if any instruction has an unknown op, or a char
// that is not a Unicode scalar value (a surrogate, or a negative or too
// large rune). It reports false even when that instruction is on an
// alternative the match would never take; use Executor.Run to execute a
// program without validating it.
func Matches(prog *Program, text string) bool {
	res, err := MatchConfig(prog, text, DefaultConfig())
	return err == nil && res.Matched()
}

// MatchConfig validates prog, then runs it over text from (0, 0).
//
// The error is nil unless the outcome is OUTCOME_ABORTED: either the
// program failed validation (ErrProgramMalformed) or the run gave up
// (*ErrAbort).
func MatchConfig(prog *Program, text string, cfg Config) (res Result, err error) {
	err = prog.Validate()
	if err != nil {
		res.Outcome = OUTCOME_ABORTED
		return
	}

	return NewExecutor(prog, cfg).Match(text)
}
