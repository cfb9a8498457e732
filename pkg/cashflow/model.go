package cashflow

import (
	"context"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ovenbird/crumb/pkg/stochastic"
)

// One step per month.
const monthDt = 1.0 / 12

// Run simulates the scenario and aggregates the ensemble into a
// Result. When the scenario's seed is zero a time-derived seed is
// used; the Result records the seed either way so a run can be
// reproduced.
func Run(ctx context.Context, sc *Scenario) (*Result, error) {
	if sc == nil {
		return nil, ErrNilScenario
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	run := *sc
	run.withDefaults()

	seed := run.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	ensemble := stochastic.Ensemble{Paths: run.Paths, Workers: run.Workers, Seed: seed}
	paths, err := ensemble.Run(ctx, func(i int, src rand.Source) ([]float64, error) {
		return simulatePath(&run, src)
	})
	if err != nil {
		return nil, err
	}

	return summarize(&run, seed, paths)
}

// simulatePath produces one net-worth path of Months+1 monthly
// samples, path[0] being the initial investment balance. All
// randomness for the path comes from src.
func simulatePath(sc *Scenario, src rand.Source) ([]float64, error) {
	var raises []stochastic.JumpEvent
	if sc.Salary.RaiseRate > 0 {
		cp := stochastic.CompoundPoisson{
			Rate: sc.Salary.RaiseRate,
			Jump: lognormalAround(sc.Salary.RaiseMean, sc.Salary.RaiseSigma, src),
			Src:  src,
		}
		var err error
		raises, err = cp.Events(float64(sc.Months) * monthDt)
		if err != nil {
			return nil, err
		}
	}

	var spendNoise []float64
	if sc.Expenses.Volatility > 0 {
		var err error
		spendNoise, err = stochastic.Wiener{Src: src}.Increments(sc.Months, monthDt)
		if err != nil {
			return nil, err
		}
	}

	var bonusFraction distuv.Rander
	if sc.Bonus.Month > 0 {
		bonusFraction = lognormalAround(sc.Bonus.FractionMean, sc.Bonus.FractionSigma, src)
	}

	growth := stochastic.GBM{S0: 1, Mu: sc.Investments.Mu, Sigma: sc.Investments.Sigma, Src: src}

	salary := sc.Salary.Monthly
	balance := sc.Investments.Initial
	path := make([]float64, sc.Months+1)
	path[0] = balance

	nextRaise := 0
	for m := 1; m <= sc.Months; m++ {
		t := float64(m) * monthDt

		for nextRaise < len(raises) && raises[nextRaise].Time <= t {
			salary *= 1 + raises[nextRaise].Size
			nextRaise++
		}

		income := salary
		if sc.Bonus.Month > 0 && (m-1)%12+1 == sc.Bonus.Month {
			income += salary * bonusFraction.Rand()
		}

		spend := sc.Expenses.Monthly * (1 + sc.Expenses.DriftPerYear*t)
		if spendNoise != nil {
			spend += sc.Expenses.Volatility * spendNoise[m-1]
		}
		if spend < 0 {
			spend = 0
		}

		// A negative balance is debt: it stops compounding until the
		// sweeps bring it back above zero.
		if balance > 0 {
			g, err := growth.GrowthFactor(monthDt)
			if err != nil {
				return nil, err
			}
			balance *= g
		}
		balance += income - spend
		path[m] = balance
	}
	return path, nil
}

func summarize(sc *Scenario, seed uint64, paths *stochastic.PathSet) (*Result, error) {
	mean, err := paths.MeanSeries()
	if err != nil {
		return nil, err
	}
	finals, err := paths.Finals()
	if err != nil {
		return nil, err
	}

	bands := make([]Band, len(sc.Quantiles))
	for i, p := range sc.Quantiles {
		series, err := paths.QuantileSeries(p)
		if err != nil {
			return nil, err
		}
		bands[i] = Band{P: p, Series: series}
	}

	ruined := 0
	for _, path := range paths.Data {
		for _, v := range path {
			if v < 0 {
				ruined++
				break
			}
		}
	}

	res := newResult(sc.Name, seed, sc.Months)
	res.Bands = bands
	res.Mean = mean
	res.Finals = finals
	res.RuinProb = float64(ruined) / float64(len(paths.Data))
	res.FinalMean = stat.Mean(finals, nil)
	if len(finals) > 1 {
		res.FinalStd = stat.StdDev(finals, nil)
	}
	return res, nil
}

// lognormalAround builds a positive jump-size sampler with the given
// mean: E[LogNormal(mu, sigma)] = exp(mu + sigma^2/2), so mu =
// ln(mean) - sigma^2/2. Zero sigma degenerates to the constant mean,
// which keeps fully deterministic scenarios checkable by hand.
func lognormalAround(mean, sigma float64, src rand.Source) distuv.Rander {
	if sigma == 0 {
		return constant(mean)
	}
	return distuv.LogNormal{
		Mu:    math.Log(mean) - 0.5*sigma*sigma,
		Sigma: sigma,
		Src:   src,
	}
}

type constant float64

func (c constant) Rand() float64 { return float64(c) }
