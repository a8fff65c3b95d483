// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package vm implements the backtracking pattern machine.
//
// A Program is a flat, jump-addressed list of four instructions: char, jump,
// split and match. The Executor decides whether some path through the
// program, starting at instruction 0 and input position 0, reaches a match
// instruction. Splits prefer their left alternative; the right alternative
// is kept on an explicit choice-point stack and tried only after the whole
// left alternative failed.
//
// A match is anchored at the start of the input only. Unconsumed trailing
// input does not make a match fail.
//
// Every instruction and symbol pointer is bounds checked before use, so a
// malformed program fails a path instead of faulting. A step budget, a
// choice depth limit and an on-path cycle guard make every run terminate.
package vm
