// Package ode integrates first-order equations dy/dt = f(t, y) across integer
// period boundaries.
//
// Every method advances one unit interval at a time and always lands exactly
// on the boundary, so integrating from a to b and sampling a trajectory from a
// at b produce the same bits as long as neither call exhausts its step budget.
package ode

import (
	"fmt"
	"math"
)

// Func is the right-hand side f(t, y).
type Func func(t, y float64) float64

const (
	MethodRK4    = "rk4"
	MethodDopri5 = "dopri5"

	DefaultTolerance    = 1e-10
	DefaultMaxStepCount = 100_000
)

type Config struct {
	// Method is MethodRK4 (default) or MethodDopri5.
	Method string

	// InitialStepSize is the fixed step for rk4 and the first trial step for
	// dopri5. It must be > 0.
	InitialStepSize float64

	AbsoluteTolerance float64
	RelativeTolerance float64

	// MaxStepCount bounds the steps (accepted and rejected) taken by one
	// Trajectory or Integrate call. The budget is shared out evenly over the
	// unit intervals still to go, with at least one step per interval; an
	// interval that would exceed its share is finished with the largest steps
	// the share allows.
	MaxStepCount uint
}

// DefaultConfig returns an rk4 configuration with the given step.
func DefaultConfig(step float64) Config {
	return Config{
		Method:            MethodRK4,
		InitialStepSize:   step,
		AbsoluteTolerance: DefaultTolerance,
		RelativeTolerance: DefaultTolerance,
		MaxStepCount:      DefaultMaxStepCount,
	}
}

func (c Config) withDefaults() Config {
	if c.Method == "" {
		c.Method = MethodRK4
	}
	if c.AbsoluteTolerance <= 0 {
		c.AbsoluteTolerance = DefaultTolerance
	}
	if c.RelativeTolerance <= 0 {
		c.RelativeTolerance = DefaultTolerance
	}
	if c.MaxStepCount == 0 {
		c.MaxStepCount = DefaultMaxStepCount
	}
	return c
}

// Validate checks the parts of a configuration a caller controls.
func (c Config) Validate() error {
	if !(c.InitialStepSize > 0) || math.IsInf(c.InitialStepSize, 0) {
		return fmt.Errorf("step size must be positive and finite, got %v", c.InitialStepSize)
	}
	switch c.Method {
	case "", MethodRK4, MethodDopri5:
	default:
		return fmt.Errorf("unknown integration method %q", c.Method)
	}
	return nil
}

type Statistics struct {
	// StepCount is the number of accepted steps.
	StepCount uint
	// RejectedCount is the number of dopri5 steps rejected by error control.
	RejectedCount uint
	// EvaluationCount is the number of times f was evaluated.
	EvaluationCount uint
	// LastStepSize is the size of the last step taken.
	LastStepSize float64
	// Truncated is set when MaxStepCount forced a coarser step somewhere.
	Truncated bool
}

func (s *Statistics) add(o Statistics) {
	s.StepCount += o.StepCount
	s.RejectedCount += o.RejectedCount
	s.EvaluationCount += o.EvaluationCount
	s.LastStepSize = o.LastStepSize
	s.Truncated = s.Truncated || o.Truncated
}

// integrator advances y across [t0, t0+1]. h carries the step proposal from
// one interval to the next for adaptive methods.
type integrator interface {
	advance(f Func, t0, y, h float64, cfg Config, stats *Statistics) (yNext, hNext float64)
}

func integratorFor(method string) integrator {
	if method == MethodDopri5 {
		return dopri5{}
	}
	return rk4{}
}

// Trajectory integrates from tStart with y(tStart) = yStart and returns y at
// tStart+1, tStart+2, ..., tEnd. An invalid configuration yields zeros.
func Trajectory(f Func, tStart int, yStart float64, tEnd int, cfg Config) ([]float64, Statistics) {
	var stats Statistics
	if tEnd <= tStart {
		return nil, stats
	}
	out := make([]float64, tEnd-tStart)
	if cfg.Validate() != nil {
		return out, stats
	}
	cfg = cfg.withDefaults()

	method := integratorFor(cfg.Method)
	y, h := yStart, cfg.InitialStepSize
	remaining := cfg.MaxStepCount
	for i := range out {
		interval := cfg
		interval.MaxStepCount = share(remaining, uint(len(out)-i))

		var s Statistics
		y, h = method.advance(f, float64(tStart+i), y, h, interval, &s)
		stats.add(s)
		out[i] = y

		used := s.StepCount + s.RejectedCount
		if used >= remaining {
			remaining = 0
		} else {
			remaining -= used
		}
	}
	return out, stats
}

// share splits the remaining budget evenly over the intervals left, never
// going below one step.
func share(remaining, intervals uint) uint {
	if n := remaining / intervals; n > 0 {
		return n
	}
	return 1
}

// Integrate returns y(tEnd) given y(tStart) = yStart. For tEnd <= tStart it
// returns yStart.
func Integrate(f Func, tStart int, yStart float64, tEnd int, cfg Config) (float64, Statistics) {
	values, stats := Trajectory(f, tStart, yStart, tEnd, cfg)
	if len(values) == 0 {
		return yStart, stats
	}
	return values[len(values)-1], stats
}
