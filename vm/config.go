// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

import (
	"strings"
)

const (
	DEFAULT_MAX_STEPS = 1_000_000 // Default step budget per run.
	DEFAULT_MAX_DEPTH = DEFAULT_MAX_STEPS // Default choice-point stack limit.
	MEMO_LIMIT        = 1 << 27   // Largest memoization bitmap, in bits.
)

// CyclePolicy selects what happens when a path revisits one of its own
// states without consuming input.
type CyclePolicy int

//go:generate go tool stringer -linecomment -type=CyclePolicy
const (
	CYCLE_ABORT = CyclePolicy(0) // abort
	CYCLE_FAIL  = CyclePolicy(1) // fail
)

// ParseCyclePolicy returns the policy named by text.
func ParseCyclePolicy(text string) (policy CyclePolicy, err error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case CYCLE_ABORT.String(), "":
		policy = CYCLE_ABORT
	case CYCLE_FAIL.String():
		policy = CYCLE_FAIL
	default:
		err = ErrCyclePolicy(text)
	}
	return
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (policy *CyclePolicy) UnmarshalText(text []byte) (err error) {
	*policy, err = ParseCyclePolicy(string(text))
	return
}

// MarshalText implements encoding.TextMarshaler.
func (policy CyclePolicy) MarshalText() ([]byte, error) {
	return []byte(policy.String()), nil
}

// Config holds the resource limits of a run.
type Config struct {
	MaxSteps int         `toml:"max_steps"` // Step budget; 0 for DEFAULT_MAX_STEPS.
	MaxDepth int         `toml:"max_depth"` // Choice-point limit; 0 for MaxSteps.
	Memoize  bool        `toml:"memoize"`   // Fail states already explored in this run.
	Cycle    CyclePolicy `toml:"cycle"`     // On-path cycle handling.
}

// DefaultConfig returns the configuration used by Matches.
func DefaultConfig() Config {
	return Config{
		MaxSteps: DEFAULT_MAX_STEPS,
		MaxDepth: DEFAULT_MAX_DEPTH,
	}
}

// normalize fills in defaults for zero or negative limits.
func (cfg Config) normalize() Config {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DEFAULT_MAX_STEPS
	}
	// Each push costs a step, so MaxSteps never limits the depth.
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = cfg.MaxSteps
	}
	return cfg
}
