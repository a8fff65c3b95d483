// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm implements the assembler and disassembler for rxvm programs.
//
// The assembly language has one statement per line; ';' starts a comment.
//
//	.equ NAME VALUE          ; textual equate
//	.macro NAME ARG...       ; macro, body until .endm; '@' makes local labels
//	.endm
//	label:                   ; one or more labels may prefix a statement
//	char VALUE...            ; one char instruction per value
//	jump TARGET              ; TARGET is a label or a signed relative offset
//	split LEFT RIGHT         ; both are labels or signed relative offsets
//	match
//
// A VALUE is an integer, a character literal such as 'a' or '\n', a string
// literal such as "abc" (one value per character), an equate, or a
// compile-time $(expression) evaluated with Starlark. Integer equates,
// labels defined so far, IP and LINENO may be used in expressions.
package asm
