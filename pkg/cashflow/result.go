package cashflow

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
)

// Band is one quantile series of the ensemble.
type Band struct {
	P      float64
	Series []float64
}

// Result aggregates a simulation run. Every series has Months+1
// entries, index 0 being the starting state.
type Result struct {
	Name   string
	Seed   uint64
	RunID  uuid.UUID
	Months int

	Bands []Band
	Mean  []float64

	RuinProb  float64
	FinalMean float64
	FinalStd  float64
	Finals    []float64
}

func newResult(name string, seed uint64, months int) *Result {
	return &Result{
		Name:   name,
		Seed:   seed,
		RunID:  uuid.New(),
		Months: months,
	}
}

// WriteCSV emits the mean and quantile series, one row per month. The
// output depends only on the simulated data, so an explicitly seeded
// run always produces byte-identical CSV.
func (r *Result) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	header := []string{"month", "mean"}
	for _, b := range r.Bands {
		header = append(header, bandLabel(b.P))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("cashflow: write csv: %w", err)
	}

	for m := 0; m <= r.Months; m++ {
		row := []string{strconv.Itoa(m), formatValue(r.Mean[m])}
		for _, b := range r.Bands {
			row = append(row, formatValue(b.Series[m]))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("cashflow: write csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("cashflow: write csv: %w", err)
	}
	return nil
}

// bandLabel renders a quantile column name: 0.1 -> "p10".
func bandLabel(p float64) string {
	return "p" + strconv.FormatFloat(p*100, 'g', -1, 64)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
