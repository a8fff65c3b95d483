// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package vm

// Frame is a pending choice point: the untried right alternative of a split.
type Frame struct {
	Ip    int // Instruction pointer of the alternative.
	Sp    int // Symbol pointer to resume at.
	Trail int // Cycle guard trail length to restore.
}

// Stack is the choice-point stack.
type Stack struct {
	Limit  int // Maximum depth, 0 for unlimited.
	Frames []Frame
	high   int
}

func (s *Stack) Push(frame Frame) {
	s.Frames = append(s.Frames, frame)
	s.high = max(s.high, len(s.Frames))
}

func (s *Stack) Pop() (frame Frame, ok bool) {
	frame, ok = s.Peek()
	if ok {
		s.Frames = s.Frames[:len(s.Frames)-1]
	}
	return
}

func (s *Stack) Peek() (frame Frame, ok bool) {
	if s.Empty() {
		return
	}

	return s.Frames[len(s.Frames)-1], true
}

func (s *Stack) Empty() bool {
	return len(s.Frames) == 0
}

func (s *Stack) Full() bool {
	return s.Limit > 0 && len(s.Frames) >= s.Limit
}

// Depth returns the number of pending frames.
func (s *Stack) Depth() int {
	return len(s.Frames)
}

// High returns the deepest the stack has been since the last Reset.
func (s *Stack) High() int {
	return s.high
}

func (s *Stack) Reset() {
	if len(s.Frames) > 0 {
		s.Frames = s.Frames[:0]
	}
	s.high = 0
}
