package ode

import "math"

// Dormand-Prince 5(4) tableau.
const (
	c2, c3, c4, c5 = 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9

	a21 = 1.0 / 5
	a31 = 3.0 / 40
	a32 = 9.0 / 40
	a41 = 44.0 / 45
	a42 = -56.0 / 15
	a43 = 32.0 / 9
	a51 = 19372.0 / 6561
	a52 = -25360.0 / 2187
	a53 = 64448.0 / 6561
	a54 = -212.0 / 729
	a61 = 9017.0 / 3168
	a62 = -355.0 / 33
	a63 = 46732.0 / 5247
	a64 = 49.0 / 176
	a65 = -5103.0 / 18656

	// 5th order weights (b2 = b7 = 0)
	b1 = 35.0 / 384
	b3 = 500.0 / 1113
	b4 = 125.0 / 192
	b5 = -2187.0 / 6784
	b6 = 11.0 / 84

	// b - b*, the embedded error estimate
	e1 = 71.0 / 57600
	e3 = -71.0 / 16695
	e4 = 71.0 / 1920
	e5 = -17253.0 / 339200
	e6 = 22.0 / 525
	e7 = -1.0 / 40
)

const (
	safety    = 0.9
	minFactor = 0.2
	maxFactor = 5.0
)

// dopri5 is an adaptive embedded Runge-Kutta method. Steps never exceed one
// period and are clipped to land on the interval end.
type dopri5 struct{}

func (dopri5) advance(f Func, t0, y, h float64, cfg Config, stats *Statistics) (float64, float64) {
	t1 := t0 + 1
	t := t0
	h = math.Min(h, 1)
	var attempts uint

	for t < t1 {
		dt := h
		last := false
		if t+dt >= t1 {
			dt = t1 - t
			last = true
		}
		forced := false
		if attempts+1 >= cfg.MaxStepCount {
			dt = t1 - t
			last = true
			forced = true
			stats.Truncated = true
		}

		yNext, errEst := dopriStep(f, t, y, dt)
		attempts++
		stats.EvaluationCount += 7

		scale := cfg.AbsoluteTolerance + cfg.RelativeTolerance*math.Max(math.Abs(y), math.Abs(yNext))
		errNorm := math.Abs(errEst) / scale

		if errNorm <= 1 || forced {
			if last {
				t = t1
			} else {
				t += dt
			}
			y = yNext
			stats.StepCount++
			stats.LastStepSize = dt
		} else {
			stats.RejectedCount++
		}

		factor := maxFactor
		switch {
		case math.IsNaN(errNorm):
			factor = minFactor
		case errNorm > 0:
			factor = math.Min(maxFactor, math.Max(minFactor, safety*math.Pow(errNorm, -0.2)))
		}
		// A clipped final step says nothing about the step the solution wants.
		if !(last && errNorm <= 1) {
			h = math.Min(dt*factor, 1)
		}
	}
	return y, h
}

func dopriStep(f Func, t, y, h float64) (yNext, errEst float64) {
	k1 := f(t, y)
	k2 := f(t+c2*h, y+h*(a21*k1))
	k3 := f(t+c3*h, y+h*(a31*k1+a32*k2))
	k4 := f(t+c4*h, y+h*(a41*k1+a42*k2+a43*k3))
	k5 := f(t+c5*h, y+h*(a51*k1+a52*k2+a53*k3+a54*k4))
	k6 := f(t+h, y+h*(a61*k1+a62*k2+a63*k3+a64*k4+a65*k5))
	yNext = y + h*(b1*k1+b3*k3+b4*k4+b5*k5+b6*k6)
	k7 := f(t+h, yNext)
	errEst = h * (e1*k1 + e3*k3 + e4*k4 + e5*k5 + e6*k6 + e7*k7)
	return yNext, errEst
}
