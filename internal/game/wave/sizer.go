package wave

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/undead/internal/scripting"
)

// SizeHook is the Lua global consulted for wave sizes.
const SizeHook = "wave_size"

// Sizer decides how many zombies wave n (1-based) contains.
type Sizer interface {
	Size(n int) int
}

// LinearSizer grows waves by a fixed step: First + Growth*(n-1).
type LinearSizer struct {
	First  int
	Growth int
}

// Size never returns a negative count. Spawner caps it.
func (s LinearSizer) Size(n int) int {
	return max(0, s.First+s.Growth*(n-1))
}

// ScriptSizer asks a Lua script for wave sizes and falls back when the
// script has no answer.
type ScriptSizer struct {
	scripts  *scripting.Manager
	script   string
	fallback Sizer
	maxSize  int
	logger   *zap.Logger
}

// NewScriptSizer returns a Sizer backed by the wave_size hook of script.
// Answers above maxSize are rejected.
//
// Precondition: scripts and fallback must not be nil; maxSize >= 1.
func NewScriptSizer(scripts *scripting.Manager, script string, fallback Sizer, maxSize int, logger *zap.Logger) *ScriptSizer {
	if scripts == nil || fallback == nil {
		panic("wave.NewScriptSizer: scripts and fallback must not be nil")
	}
	if maxSize < 1 {
		panic("wave.NewScriptSizer: maxSize must be >= 1")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScriptSizer{scripts: scripts, script: script, fallback: fallback, maxSize: maxSize, logger: logger}
}

// Size returns the hook's answer rounded down. Missing hooks, script errors
// and negative, non-finite or oversized answers use the fallback.
//
// Postcondition: 0 <= Size(n) <= maxSize when the fallback honours the same
// bound.
func (s *ScriptSizer) Size(n int) int {
	v, ok := s.scripts.CallNumber(s.script, SizeHook, float64(n))
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v >= float64(s.maxSize)+1 {
		if ok {
			s.logger.Warn("wave_size returned an unusable value", zap.Int("wave", n), zap.Float64("value", v))
		}
		return s.fallback.Size(n)
	}
	return int(math.Floor(v))
}
