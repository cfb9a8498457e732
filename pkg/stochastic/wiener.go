package stochastic

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Wiener is a standard Wiener process (Brownian motion): W(0) = 0 with
// independent N(0, dt) increments. The blog uses it to model random
// spending fluctuations around a baseline.
type Wiener struct {
	Src rand.Source
}

// Increments draws n Wiener increments over time step dt, each
// distributed N(0, sqrt(dt)).
func (w Wiener) Increments(n int, dt float64) ([]float64, error) {
	if n <= 0 {
		return nil, ErrBadSteps
	}
	if dt <= 0 {
		return nil, ErrBadDt
	}

	normal := distuv.Normal{Mu: 0, Sigma: math.Sqrt(dt), Src: w.Src}
	out := make([]float64, n)
	for i := range out {
		out[i] = normal.Rand()
	}
	return out, nil
}

// Path samples the process at n steps of size dt, returning n+1 values
// with Path[0] == 0.
func (w Wiener) Path(n int, dt float64) ([]float64, error) {
	incs, err := w.Increments(n, dt)
	if err != nil {
		return nil, err
	}

	path := make([]float64, n+1)
	for i, d := range incs {
		path[i+1] = path[i] + d
	}
	return path, nil
}
