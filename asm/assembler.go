// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/rxvm/vm"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// MACRO_DEPTH is the deepest nesting of macro expansions.
const MACRO_DEPTH = 64

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":     "0",
	"IP":         "0",
	"MAX_RUNE":   fmt.Sprintf("%#x", utf8.MaxRune),
	"RUNE_ERROR": fmt.Sprintf("%#x", utf8.RuneError),
}

// Character and string literals, in source order.
var reLiteral = regexp.MustCompile(`'(?:\\(?:x[0-9a-fA-F]{2}|u[0-9a-fA-F]{4}|U[0-9a-fA-F]{8}|[0-7]{3}|.)|[^'\\])'|"(?:\\.|[^"\\])*"`)

// Compile time expressions.
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// Label names usable as jump and split targets.
var reLabel = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`)

// Assembler is a single pass macro assembler for rxvm programs.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Line    []Line // List of assembled lines.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to instruction pointers.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.

	expansions int // Count of macro expansions.
	depth      int // Current macro expansion nesting.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) > 0 && (word[0] == '\'' || word[0] == '"') {
		// Literals should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(word)
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// runeOf returns the character value of a word.
func (asm *Assembler) runeOf(word string) (r rune, err error) {
	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if value < 0 || value > utf8.MaxRune || !utf8.ValidRune(rune(value)) {
		err = ErrParseCharacter(word)
		return
	}

	r = rune(value)
	return
}

// target returns either the relative offset, or the label, of a word.
func (asm *Assembler) target(word string) (offset int, label string, err error) {
	value, err := asm.valueOf(word)
	if err == nil {
		if int64(int(value)) != value {
			err = ErrTargetInvalid
			return
		}
		offset = int(value)
		return
	}

	if !reLabel.MatchString(word) {
		err = errors.Join(ErrTargetInvalid, err)
		return
	}

	err = nil
	label = word
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, ip := range asm.Label {
		pred[key] = starlark.MakeInt(ip)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// literalEval expands a character or string literal into values.
func literalEval(word string) (expanded string, err error) {
	str, err := strconv.Unquote(word)
	if err != nil {
		if word[0] == '"' {
			err = ErrParseString(word)
		} else {
			err = ErrParseCharacter(word)
		}
		return
	}

	values := make([]string, 0, len(str))
	for _, r := range str {
		values = append(values, strconv.Itoa(int(r)))
	}

	expanded = strings.Join(values, " ")
	return
}

// stripComment removes a ';' comment that is not inside a literal.
func stripComment(text string) string {
	spans := reLiteral.FindAllStringIndex(text, -1)
	for n := 0; n < len(text); n++ {
		if text[n] != ';' {
			continue
		}
		quoted := false
		for _, span := range spans {
			if n >= span[0] && n < span[1] {
				quoted = true
				break
			}
		}
		if !quoted {
			return text[:n]
		}
	}

	return text
}

// parseLine parses a single line into words, expanding macros.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number and instruction pointer.
	asm.Equate["LINENO"] = strconv.Itoa(lineno)
	asm.Equate["IP"] = strconv.Itoa(asm.currentIp())

	// Do 'x' and "xyz" evaluations
	line = reLiteral.ReplaceAllStringFunc(line, func(word string) string {
		expanded, _err := literalEval(word)
		if _err != nil && err == nil {
			err = _err
		}
		return " " + expanded + " "
	})
	if err != nil {
		return
	}

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return strconv.FormatInt(value, 10)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		if asm.depth >= MACRO_DEPTH {
			err = ErrMacroRecursion
			return
		}
		asm.depth++
		defer func() { asm.depth-- }()
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		asm.expansions++
		prefix := fmt.Sprintf("%v_%v_", name, asm.expansions)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", prefix)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	if len(asm.Line) == 0 {
		return 0
	}

	last := asm.Line[len(asm.Line)-1]

	return last.Ip + len(last.Insts)
}

// Parse parses an input stream into a Listing of instructions.
func (asm *Assembler) Parse(input io.Reader) (lst *Listing, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.expansions = 0
	asm.depth = 0
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(stripComment(text))
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Line {
		op := &asm.Line[n]

		for index, label := range op.Links {
			if len(label) == 0 {
				continue
			}
			ip, ok := asm.Label[label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(label)
				return
			}
			inst := &op.Insts[0]
			offset := ip - op.Ip
			switch index {
			case 0:
				inst.X = offset
			case 1:
				inst.Y = offset
			}
		}
	}

	lst = &Listing{
		Lines: make([]Line, len(asm.Line)),
	}
	for n, op := range asm.Line {
		op.Words = append([]string(nil), op.Words...)
		op.Insts = append([]vm.Inst(nil), op.Insts...)
		op.Links = append([]string(nil), op.Links...)
		lst.Lines[n] = op
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var insts []vm.Inst
	var links []string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || len(insts) == 0 {
			return
		}
		line := Line{LineNo: lineno, Ip: asm.currentIp(), Words: words, Insts: insts, Links: links}
		asm.Line = append(asm.Line, line)
	}()

	switch words[0] {
	case "char":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var r rune
			r, err = asm.runeOf(word)
			if err != nil {
				return
			}
			insts = append(insts, vm.Char(r))
		}
	case "jump":
		if len(words) < 2 {
			err = ErrOpcodeMissing
			return
		}
		if len(words) > 2 {
			err = ErrOpcodeExtraArgs
			return
		}
		var offset int
		var label string
		offset, label, err = asm.target(words[1])
		if err != nil {
			return
		}
		insts = append(insts, vm.Jump(offset))
		links = []string{label}
	case "split":
		if len(words) < 3 {
			err = ErrOpcodeMissing
			return
		}
		if len(words) > 3 {
			err = ErrOpcodeExtraArgs
			return
		}
		var offsets [2]int
		links = make([]string, 2)
		for n, word := range words[1:] {
			offsets[n], links[n], err = asm.target(word)
			if err != nil {
				return
			}
		}
		insts = append(insts, vm.Split(offsets[0], offsets[1]))
	case "match":
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		insts = append(insts, vm.Match())
	default:
		err = ErrInstructionInvalid
		return
	}

	return
}

// Assemble assembles program text into a Program.
func Assemble(input io.Reader) (prog *vm.Program, err error) {
	asm := &Assembler{}
	lst, err := asm.Parse(input)
	if err != nil {
		return
	}

	prog = lst.Program()
	return
}
