package stochastic

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// JumpEvent is one arrival of a compound-Poisson process: when it
// happened and how large the jump was.
type JumpEvent struct {
	Time float64
	Size float64
}

// CompoundPoisson models discrete events arriving at a constant rate
// with i.i.d. sizes: the blog's salary raises (rate ≈ raises per year,
// size ≈ raise percentage).
type CompoundPoisson struct {
	Rate float64       // expected events per unit time, non-negative
	Jump distuv.Rander // jump size distribution
	Src  rand.Source
}

// Events samples the arrivals on (0, horizon] via exponential
// inter-arrival times. Rate == 0 yields no events.
func (c CompoundPoisson) Events(horizon float64) ([]JumpEvent, error) {
	if c.Rate < 0 {
		return nil, ErrBadRate
	}
	if horizon <= 0 {
		return nil, ErrBadHorizon
	}
	if c.Jump == nil {
		return nil, ErrNilJump
	}
	if c.Rate == 0 {
		return nil, nil
	}

	exp := distuv.Exponential{Rate: c.Rate, Src: c.Src}

	var events []JumpEvent
	t := exp.Rand()
	for t <= horizon {
		events = append(events, JumpEvent{Time: t, Size: c.Jump.Rand()})
		t += exp.Rand()
	}
	return events, nil
}
