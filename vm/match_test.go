// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// progAltC is (a|b)c
var progAltC = []Inst{
	Split(1, 3),
	Char('a'),
	Jump(2),
	Char('b'),
	Char('c'),
	Match(),
}

// progStar is a*
var progStar = []Inst{
	Split(1, 3),
	Char('a'),
	Jump(-2),
	Match(),
}

func TestMatches(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []Inst
		text    string
		matched bool
	}){
		{"match_anything", []Inst{Match()}, "anything", true},
		{"match_empty", []Inst{Match()}, "", true},
		{"char_first", []Inst{Char('a'), Match()}, "ab", true},
		{"char_mismatch", []Inst{Char('a'), Match()}, "ba", false},
		{"char_empty", []Inst{Char('a'), Match()}, "", false},
		{"literal", []Inst{Char('a'), Char('b'), Match()}, "ab", true},
		{"literal_prefix", []Inst{Char('a'), Char('b'), Match()}, "abc", true},
		{"literal_short", []Inst{Char('a'), Char('b'), Match()}, "a", false},
		{"alt_left", progAltC, "ac", true},
		{"alt_right", progAltC, "bc", true},
		{"alt_none", progAltC, "ab", false},
		{"alt_neither", progAltC, "cc", false},
		{"star_empty", progStar, "", true},
		{"star_many", progStar, "aaab", true},
		{"empty_program", []Inst{}, "", false},
		{"empty_program_text", nil, "abc", false},
		{"jump_past_end", []Inst{Jump(100)}, "", false},
		{"jump_before_start", []Inst{Jump(-5)}, "", false},
		{"char_then_off_end", []Inst{Char('a')}, "a", false},
		{"split_bad_left", []Inst{Split(-10, 1), Match()}, "", true},
		{"split_both_bad", []Inst{Split(-10, 10), Match()}, "", false},
		{"jump_overflow", []Inst{Char('x'), Jump(math.MaxInt), Match()}, "x", false},
		{"split_overflow", []Inst{Char('x'), Split(math.MinInt, math.MaxInt), Match()}, "x", false},
		{"split_overflow_left", []Inst{Char('x'), Split(math.MaxInt, 1), Match()}, "x", true},
		{"unicode", []Inst{Char('é'), Char('t'), Match()}, "été", true},
		{"invalid_utf8", []Inst{Char(utf8.RuneError), Match()}, "\xff", true},
	}

	for _, entry := range table {
		prog := NewProgram(entry.program...)
		assert.Equal(entry.matched, Matches(prog, entry.text), entry.name)
	}
}

func TestMatch_End(t *testing.T) {
	assert := assert.New(t)

	// a|ab, left preferred.
	left := NewProgram(
		Split(1, 3),
		Char('a'),
		Jump(3),
		Char('a'),
		Char('b'),
		Match(),
	)
	// ab|a, by swapping the split preference.
	right := NewProgram(
		Split(3, 1),
		Char('a'),
		Jump(3),
		Char('a'),
		Char('b'),
		Match(),
	)

	res, err := MatchConfig(left, "ab", DefaultConfig())
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
	assert.Equal(1, res.End)

	res, err = MatchConfig(right, "ab", DefaultConfig())
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
	assert.Equal(2, res.End)

	res, err = MatchConfig(NewProgram(progStar...), "aaab", DefaultConfig())
	assert.NoError(err)
	assert.Equal(3, res.End)
	assert.Equal(4, res.Depth)

	res, err = MatchConfig(NewProgram(Match()), "anything", DefaultConfig())
	assert.NoError(err)
	assert.Equal(0, res.End)
	assert.Equal(1, res.Steps)
}

func TestMatch_Cycle(t *testing.T) {
	assert := assert.New(t)

	self := NewProgram(Jump(0))

	res, err := MatchConfig(self, "", DefaultConfig())
	assert.Equal(OUTCOME_ABORTED, res.Outcome)
	assert.ErrorIs(err, ErrNonTerminating)
	assert.False(Matches(self, ""))

	var abort *ErrAbort
	assert.True(errors.As(err, &abort))
	assert.Equal(0, abort.Ip)
	assert.Equal(0, abort.Sp)
	assert.Equal(2, abort.Steps)

	cfg := DefaultConfig()
	cfg.Cycle = CYCLE_FAIL
	res, err = MatchConfig(self, "", cfg)
	assert.NoError(err)
	assert.Equal(OUTCOME_NO_MATCH, res.Outcome)

	// (a*)* loops back to the outer split without consuming input.
	nested := NewProgram(
		Split(1, 5),
		Split(1, 3),
		Char('a'),
		Jump(-2),
		Jump(-4),
		Match(),
	)

	for _, text := range []string{"", "b", "aa"} {
		res, err = MatchConfig(nested, text, DefaultConfig())
		assert.ErrorIs(err, ErrNonTerminating, text)
		assert.Equal(OUTCOME_ABORTED, res.Outcome, text)

		res, err = MatchConfig(nested, text, cfg)
		assert.NoError(err, text)
		assert.Equal(OUTCOME_MATCH, res.Outcome, text)
		assert.Equal(strings.Count(text, "a"), res.End, text)
	}

	// A split that names itself on the right.
	spin := NewProgram(Split(1, 0), Char('a'), Match())
	res, err = MatchConfig(spin, "b", DefaultConfig())
	assert.ErrorIs(err, ErrNonTerminating)
	res, err = MatchConfig(spin, "ab", DefaultConfig())
	assert.NoError(err)
	assert.True(res.Matched())
}

// alternations returns a program for (a|a){count}b, which explores
// 2^count paths on a run of 'a' with no 'b'.
func alternations(count int) *Program {
	var insts []Inst
	for range count {
		insts = append(insts, Split(1, 3), Char('a'), Jump(2), Char('a'))
	}
	insts = append(insts, Char('b'), Match())
	return NewProgram(insts...)
}

func TestMatch_StepBudget(t *testing.T) {
	assert := assert.New(t)

	prog := alternations(20)
	text := strings.Repeat("a", 20)

	cfg := Config{MaxSteps: 10000}
	res, err := MatchConfig(prog, text, cfg)
	assert.ErrorIs(err, ErrStepBudgetExceeded)
	assert.Equal(OUTCOME_ABORTED, res.Outcome)
	assert.Equal(10000, res.Steps)

	cfg.Memoize = true
	res, err = MatchConfig(prog, text, cfg)
	assert.NoError(err)
	assert.Equal(OUTCOME_NO_MATCH, res.Outcome)
	assert.Less(res.Steps, 10000)

	res, err = MatchConfig(prog, text+"b", cfg)
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
	assert.Equal(21, res.End)
}

func TestMatch_Depth(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(progStar...)

	cfg := Config{MaxDepth: 4}
	res, err := MatchConfig(prog, "aaa", cfg)
	assert.NoError(err)
	assert.Equal(4, res.Depth)

	res, err = MatchConfig(prog, "aaaaaaaa", cfg)
	assert.ErrorIs(err, ErrStackFull)
	assert.Equal(OUTCOME_ABORTED, res.Outcome)
	assert.Equal(4, res.Depth)
}

func TestMatch_LongLoop(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(progStar...)
	text := strings.Repeat("a", 70_000)

	res, err := MatchConfig(prog, text, DefaultConfig())
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
	assert.Equal(70_000, res.End)
	assert.Equal(70_001, res.Depth)
	assert.Equal(210_003, res.Steps)
	assert.True(Matches(prog, text))

	// Only the step budget limits the depth by default.
	res, err = MatchConfig(prog, text, Config{MaxSteps: 1000})
	assert.ErrorIs(err, ErrStepBudgetExceeded)
	assert.Equal(OUTCOME_ABORTED, res.Outcome)
}

func TestMatch_Malformed(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(Char('a'), Char(-1), Inst{Op: Op(9)}, Match())

	res, err := MatchConfig(prog, "a", DefaultConfig())
	assert.Equal(OUTCOME_ABORTED, res.Outcome)
	assert.Equal(0, res.Steps)
	assert.ErrorIs(err, ErrProgramMalformed)
	assert.ErrorIs(err, ErrRuneInvalid)
	assert.ErrorIs(err, ErrOpInvalid)

	var inst *ErrInst
	assert.True(errors.As(err, &inst))
	assert.Equal(1, inst.Ip)

	assert.False(Matches(prog, "a"))

	// The executor itself only fails the path.
	res, err = NewExecutor(prog, DefaultConfig()).Match("a")
	assert.NoError(err)
	assert.Equal(OUTCOME_NO_MATCH, res.Outcome)

	res, err = NewExecutor(NewProgram(Split(1, 2), Inst{Op: Op(-1)}, Match()), DefaultConfig()).Match("")
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
}

func TestMatch_Deterministic(t *testing.T) {
	assert := assert.New(t)

	insts := []Inst{Split(1, 3), Char('a'), Jump(2), Char('b'), Char('c'), Match()}
	prog := NewProgram(insts...)
	insts[0] = Match()

	before := prog.String()
	for range 3 {
		assert.True(Matches(prog, "bc"))
		assert.False(Matches(prog, "ab"))
	}
	assert.Equal(before, prog.String())
	assert.Equal(Split(1, 3), prog.insts[0])
}

func TestMatches_UnreachableMalformed(t *testing.T) {
	assert := assert.New(t)

	// The surrogate char is only on the right alternative, never taken.
	prog := NewProgram(Split(1, 3), Char('a'), Match(), Char(0xd800), Match())

	assert.False(Matches(prog, "a"))
	_, err := MatchConfig(prog, "a", DefaultConfig())
	assert.ErrorIs(err, ErrRuneInvalid)

	res, err := NewExecutor(prog, DefaultConfig()).Match("a")
	assert.NoError(err)
	assert.True(res.Matched())
}

func TestExecutor_Run(t *testing.T) {
	assert := assert.New(t)

	x := NewExecutor(NewProgram(progAltC...), Config{})
	assert.Equal(DEFAULT_MAX_STEPS, x.Config().MaxSteps)
	assert.Equal(DEFAULT_MAX_DEPTH, x.Config().MaxDepth)

	input := NewInput("xbc")

	res, err := x.Run(input, 0, 1)
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)
	assert.Equal(3, res.End)

	res, err = x.Run(input, 4, 2)
	assert.NoError(err)
	assert.Equal(OUTCOME_MATCH, res.Outcome)

	for _, state := range [][2]int{{0, 4}, {0, -1}, {-1, 0}, {6, 0}} {
		res, err = x.Run(input, state[0], state[1])
		assert.NoError(err)
		assert.Equal(OUTCOME_NO_MATCH, res.Outcome, state)
		assert.Equal(1, res.Steps, state)
	}

	// sp == len(input) is a valid state.
	res, err = NewExecutor(NewProgram(Match()), Config{}).Run(input, 0, input.Len())
	assert.NoError(err)
	assert.Equal(input.Len(), res.End)
}

func TestExecutor_Trace(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(
		Split(1, 4),
		Char('a'),
		Jump(-2),
		Jump(40),
		Split(-4, -400),
		Char('a'),
		Char('b'),
		Match(),
	)

	for _, text := range []string{"", "a", "ab", "aab", "ba"} {
		input := NewInput(text)
		x := NewExecutor(prog, Config{Cycle: CYCLE_FAIL})
		var steps []Step
		x.Trace = func(step Step) {
			steps = append(steps, step)
		}
		res, err := x.Run(input, 0, 0)
		assert.NoError(err, text)
		assert.NotEmpty(steps, text)
		for _, step := range steps {
			assert.GreaterOrEqual(step.Ip, 0, text)
			assert.Less(step.Ip, prog.Len(), text)
			assert.GreaterOrEqual(step.Sp, 0, text)
			assert.LessOrEqual(step.Sp, input.Len(), text)
			inst, _ := prog.At(step.Ip)
			assert.Equal(inst, step.Inst, text)
		}
		assert.LessOrEqual(len(steps), res.Steps, text)
	}
}

func TestExecutor_Reuse(t *testing.T) {
	assert := assert.New(t)

	x := NewExecutor(alternations(4), Config{Memoize: true})

	for range 2 {
		res, err := x.Match("aaaab")
		assert.NoError(err)
		assert.Equal(OUTCOME_MATCH, res.Outcome)
		assert.Equal(5, res.End)

		res, err = x.Match("aaaa")
		assert.NoError(err)
		assert.Equal(OUTCOME_NO_MATCH, res.Outcome)
	}
}

func TestAddOffset(t *testing.T) {
	assert := assert.New(t)

	sum, ok := addOffset(3, -5)
	assert.True(ok)
	assert.Equal(-2, sum)

	_, ok = addOffset(1, math.MaxInt)
	assert.False(ok)

	_, ok = addOffset(-1, math.MinInt)
	assert.False(ok)

	sum, ok = addOffset(0, math.MaxInt)
	assert.True(ok)
	assert.Equal(math.MaxInt, sum)
}
