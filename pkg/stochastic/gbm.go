package stochastic

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// GBM is geometric Brownian motion: dS = mu*S dt + sigma*S dW.
// The blog models salary growth and investment valuations with it.
type GBM struct {
	S0    float64 // starting value, must be positive
	Mu    float64 // drift per unit time
	Sigma float64 // volatility per sqrt unit time, non-negative
	Src   rand.Source
}

func (g GBM) validate() error {
	if g.S0 <= 0 {
		return ErrBadStart
	}
	if g.Sigma < 0 {
		return ErrBadSigma
	}
	return nil
}

// Path samples the process at n steps of size dt using the exact
// log-Euler scheme
//
//	S_{k+1} = S_k * exp((mu - sigma^2/2) dt + sigma sqrt(dt) Z),
//
// which is distributionally exact for GBM at the grid points and keeps
// every value strictly positive. Returns n+1 values with Path[0] == S0.
// Sigma == 0 degenerates to the deterministic exponential drift.
func (g GBM) Path(n int, dt float64) ([]float64, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return nil, ErrBadSteps
	}
	if dt <= 0 {
		return nil, ErrBadDt
	}

	drift := (g.Mu - 0.5*g.Sigma*g.Sigma) * dt
	diffusion := g.Sigma * math.Sqrt(dt)

	path := make([]float64, n+1)
	path[0] = g.S0

	if g.Sigma == 0 {
		step := math.Exp(g.Mu * dt)
		for i := 1; i <= n; i++ {
			path[i] = path[i-1] * step
		}
		return path, nil
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: g.Src}
	for i := 1; i <= n; i++ {
		path[i] = path[i-1] * math.Exp(drift+diffusion*normal.Rand())
	}
	return path, nil
}

// GrowthFactor draws one multiplicative step over time dt: the factor
// S(t+dt)/S(t). Callers compounding a balance month by month use this
// instead of materializing whole paths.
func (g GBM) GrowthFactor(dt float64) (float64, error) {
	if err := g.validate(); err != nil {
		return 0, err
	}
	if dt <= 0 {
		return 0, ErrBadDt
	}
	if g.Sigma == 0 {
		return math.Exp(g.Mu * dt), nil
	}
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: g.Src}
	return math.Exp((g.Mu-0.5*g.Sigma*g.Sigma)*dt + g.Sigma*math.Sqrt(dt)*normal.Rand()), nil
}
