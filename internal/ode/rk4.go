package ode

import "math"

// rk4 is the classic fixed-step fourth-order Runge-Kutta method.
type rk4 struct{}

func (rk4) advance(f Func, t0, y, h float64, cfg Config, stats *Statistics) (float64, float64) {
	steps := math.Max(1, math.Ceil(1/h-1e-9))
	step := h
	if steps > float64(cfg.MaxStepCount) {
		steps = float64(cfg.MaxStepCount)
		step = 1 / steps
		stats.Truncated = true
	}
	n := uint(steps)

	for i := uint(0); i < n; i++ {
		t := t0 + float64(i)*step
		dt := step
		if i == n-1 {
			dt = t0 + 1 - t
		}
		y = rk4Step(f, t, y, dt)
		stats.LastStepSize = dt
	}
	stats.StepCount += n
	stats.EvaluationCount += 4 * n
	return y, h
}

func rk4Step(f Func, t, y, h float64) float64 {
	k1 := f(t, y)
	k2 := f(t+h/2, y+h/2*k1)
	k3 := f(t+h/2, y+h/2*k2)
	k4 := f(t+h, y+h*k3)
	return y + h/6*(k1+2*k2+2*k3+k4)
}
