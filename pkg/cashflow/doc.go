// Package cashflow simulates a personal salary/spending/investment
// scenario as a Monte Carlo ensemble of monthly net-worth paths.
//
// A Scenario (usually loaded from YAML) describes salary with random
// raises, an optional annual bonus, drifting noisy expenses, and an
// investment balance that compounds between months. Run produces a
// Result with quantile bands, the mean path, and the probability of
// ruin, ready for CSV export or chart rendering.
//
// Given an explicit seed the simulation is fully deterministic: the
// same scenario always produces the same paths regardless of how many
// workers run it.
package cashflow
