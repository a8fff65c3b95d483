// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Input is the subject text as a sequence of code points.
type Input []rune

// NewInput decodes text once. Invalid UTF-8 bytes decode to
// utf8.RuneError, one per byte.
func NewInput(text string) Input {
	return Input([]rune(text))
}

// Len returns the number of code points.
func (in Input) Len() int {
	return len(in)
}

// At returns the code point at sp, and false at or past the end.
func (in Input) At(sp int) (r rune, ok bool) {
	if sp < 0 || sp >= len(in) {
		return
	}
	return in[sp], true
}

// String returns the input as a string.
func (in Input) String() string {
	return string(in)
}
