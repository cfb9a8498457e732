package cashflow

import "errors"

var (
	// ErrNilScenario is returned when Run is handed a nil scenario.
	ErrNilScenario = errors.New("cashflow: nil scenario")

	// ErrBadMonths is returned when the horizon is not positive.
	ErrBadMonths = errors.New("cashflow: months must be positive")

	// ErrBadPaths is returned when the path count is not positive.
	ErrBadPaths = errors.New("cashflow: paths must be positive")

	// ErrBadBonusMonth is returned when the bonus month is outside
	// 0..12 (0 disables the bonus).
	ErrBadBonusMonth = errors.New("cashflow: bonus month must be 0..12")

	// ErrNegativeValue is returned when a rate, volatility, or amount
	// that must be non-negative is negative. The wrapped message names
	// the offending field.
	ErrNegativeValue = errors.New("cashflow: value must be non-negative")

	// ErrBadQuantile is returned when a requested quantile falls
	// outside (0, 1).
	ErrBadQuantile = errors.New("cashflow: quantile must be inside (0, 1)")

	// ErrBadJumpMean is returned when raises or bonuses are enabled
	// with a non-positive mean size.
	ErrBadJumpMean = errors.New("cashflow: jump mean must be positive when enabled")
)
