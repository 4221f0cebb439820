package testutil

import (
	"fmt"
	"sync"
)

// ScriptedSource returns predetermined uniform draws in order.
//
// It satisfies shower.Source and lets tests drive each branch of a step
// (exclusion deposit, radiation, conversion) with hand-picked values, so
// expected energies can be computed by hand.
//
// Thread-safety: ScriptedSource is safe for concurrent use via internal mutex.
type ScriptedSource struct {
	mu    sync.Mutex
	draws []float64
	idx   int
}

// NewScriptedSource creates a source that yields draws in order.
//
// Example:
//
//	src := NewScriptedSource(0.99, 0.25)
//	src.Float64() // 0.99
//	src.Float64() // 0.25
//	src.Float64() // panic: all draws consumed
func NewScriptedSource(draws ...float64) *ScriptedSource {
	return &ScriptedSource{draws: draws}
}

// Float64 returns the next scripted draw.
//
// Panics once the script is exhausted: a test that draws more often than it
// scripted has a wrong expectation about the branch taken.
func (s *ScriptedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.idx >= len(s.draws) {
		panic(fmt.Sprintf("ScriptedSource: all %d draws consumed", len(s.draws)))
	}
	v := s.draws[s.idx]
	s.idx++
	return v
}

// Consumed returns how many draws have been taken.
func (s *ScriptedSource) Consumed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// Remaining returns how many scripted draws are left.
func (s *ScriptedSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.draws) - s.idx
}

// Reset rewinds the script to the first draw.
func (s *ScriptedSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.idx = 0
}
