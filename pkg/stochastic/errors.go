package stochastic

import "errors"

var (
	// ErrBadSteps indicates a non-positive step count.
	ErrBadSteps = errors.New("stochastic: steps must be positive")

	// ErrBadDt indicates a non-positive time increment.
	ErrBadDt = errors.New("stochastic: dt must be positive")

	// ErrBadPaths indicates a non-positive path count.
	ErrBadPaths = errors.New("stochastic: paths must be positive")

	// ErrBadSigma indicates a negative volatility.
	ErrBadSigma = errors.New("stochastic: sigma must be non-negative")

	// ErrBadStart indicates a non-positive starting value for a
	// process constrained to stay positive.
	ErrBadStart = errors.New("stochastic: start value must be positive")

	// ErrBadRate indicates a negative event rate.
	ErrBadRate = errors.New("stochastic: rate must be non-negative")

	// ErrBadHorizon indicates a non-positive simulation horizon.
	ErrBadHorizon = errors.New("stochastic: horizon must be positive")

	// ErrNilJump indicates a compound-Poisson process without a jump
	// size distribution.
	ErrNilJump = errors.New("stochastic: nil jump distribution")

	// ErrNilGen indicates an ensemble run without a path generator.
	ErrNilGen = errors.New("stochastic: nil path generator")

	// ErrBadQuantile indicates a quantile outside [0, 1].
	ErrBadQuantile = errors.New("stochastic: quantile outside [0,1]")

	// ErrNoData indicates an operation on an empty path set.
	ErrNoData = errors.New("stochastic: empty path set")
)
