package cashflow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Salary describes the income process: a monthly amount multiplied by
// (1 + J) at raise events arriving at RaiseRate per year, with J drawn
// from a lognormal whose mean is RaiseMean.
type Salary struct {
	Monthly    float64 `yaml:"monthly"`
	RaiseRate  float64 `yaml:"raise_rate"`
	RaiseMean  float64 `yaml:"raise_mean"`
	RaiseSigma float64 `yaml:"raise_sigma"`
}

// Bonus is an annual payment of salary times a lognormal fraction,
// paid in the given calendar month. Month 0 disables it.
type Bonus struct {
	Month         int     `yaml:"month"`
	FractionMean  float64 `yaml:"fraction_mean"`
	FractionSigma float64 `yaml:"fraction_sigma"`
}

// Expenses describes monthly spending: a baseline growing linearly at
// DriftPerYear, plus Wiener fluctuations scaled by Volatility. Spending
// never goes below zero.
type Expenses struct {
	Monthly      float64 `yaml:"monthly"`
	DriftPerYear float64 `yaml:"drift_per_year"`
	Volatility   float64 `yaml:"volatility"`
}

// Investments describes the balance surplus cash is swept into. It
// compounds between months as geometric Brownian motion with the given
// annualized drift and volatility.
type Investments struct {
	Initial float64 `yaml:"initial"`
	Mu      float64 `yaml:"mu"`
	Sigma   float64 `yaml:"sigma"`
}

// Scenario is one complete simulation setup. Zero Seed means a
// time-derived seed is picked at run time; the Result echoes whichever
// seed was actually used.
type Scenario struct {
	Name        string      `yaml:"name"`
	Seed        uint64      `yaml:"seed"`
	Months      int         `yaml:"months"`
	Paths       int         `yaml:"paths"`
	Workers     int         `yaml:"workers"`
	Salary      Salary      `yaml:"salary"`
	Bonus       Bonus       `yaml:"bonus"`
	Expenses    Expenses    `yaml:"expenses"`
	Investments Investments `yaml:"investments"`
	Quantiles   []float64   `yaml:"quantiles"`
}

// LoadScenario reads and validates a scenario from a YAML file.
// Unknown keys are rejected so typos surface instead of silently
// falling back to defaults.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cashflow: open scenario: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("cashflow: decode %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks the scenario for inconsistent parameters. It does
// not mutate the scenario.
func (s *Scenario) Validate() error {
	if s.Months <= 0 {
		return ErrBadMonths
	}
	if s.Paths <= 0 {
		return ErrBadPaths
	}
	if s.Bonus.Month < 0 || s.Bonus.Month > 12 {
		return fmt.Errorf("%w: got %d", ErrBadBonusMonth, s.Bonus.Month)
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"salary.monthly", s.Salary.Monthly},
		{"salary.raise_rate", s.Salary.RaiseRate},
		{"salary.raise_sigma", s.Salary.RaiseSigma},
		{"bonus.fraction_sigma", s.Bonus.FractionSigma},
		{"expenses.monthly", s.Expenses.Monthly},
		{"expenses.volatility", s.Expenses.Volatility},
		{"investments.initial", s.Investments.Initial},
		{"investments.sigma", s.Investments.Sigma},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return fmt.Errorf("%w: %s", ErrNegativeValue, f.name)
		}
	}

	if s.Salary.RaiseRate > 0 && s.Salary.RaiseMean <= 0 {
		return fmt.Errorf("%w: salary.raise_mean", ErrBadJumpMean)
	}
	if s.Bonus.Month > 0 && s.Bonus.FractionMean <= 0 {
		return fmt.Errorf("%w: bonus.fraction_mean", ErrBadJumpMean)
	}

	for _, q := range s.Quantiles {
		if q <= 0 || q >= 1 {
			return fmt.Errorf("%w: got %g", ErrBadQuantile, q)
		}
	}
	return nil
}

// withDefaults fills in optional fields on a copy held by Run.
func (s *Scenario) withDefaults() {
	if len(s.Quantiles) == 0 {
		s.Quantiles = []float64{0.1, 0.5, 0.9}
	}
}
