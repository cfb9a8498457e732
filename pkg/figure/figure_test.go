package figure_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ovenbird/crumb/pkg/cashflow"
	"github.com/ovenbird/crumb/pkg/figure"
)

func svgPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "chart.svg")
}

func TestWriteLines(t *testing.T) {
	path := svgPath(t)
	lines := []figure.Line{
		{Name: "drift", Ys: []float64{0, 1, 2, 3}},
		{Name: "noisy", Ys: []float64{0, 1.5, 1.2, 3.3}},
	}
	if err := figure.WriteLines(path, "sample paths", "t", "value", 0.25, lines); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("output is not svg")
	}
}

func TestWriteLines_Errors(t *testing.T) {
	path := svgPath(t)
	ys := []float64{1, 2}

	if err := figure.WriteLines("chart.png", "", "", "", 1, []figure.Line{{Ys: ys}}); !errors.Is(err, figure.ErrBadExtension) {
		t.Errorf("png: %v", err)
	}
	if err := figure.WriteLines(path, "", "", "", 0, []figure.Line{{Ys: ys}}); !errors.Is(err, figure.ErrBadStep) {
		t.Errorf("dx=0: %v", err)
	}
	if err := figure.WriteLines(path, "", "", "", 1, nil); !errors.Is(err, figure.ErrNoData) {
		t.Errorf("no lines: %v", err)
	}
	mismatch := []figure.Line{{Ys: ys}, {Ys: []float64{1}}}
	if err := figure.WriteLines(path, "", "", "", 1, mismatch); !errors.Is(err, figure.ErrLengthMismatch) {
		t.Errorf("mismatch: %v", err)
	}
}

func TestWriteFan(t *testing.T) {
	sc := &cashflow.Scenario{
		Seed:   3,
		Months: 12,
		Paths:  16,
		Salary: cashflow.Salary{Monthly: 4000},
		Expenses: cashflow.Expenses{
			Monthly:    3500,
			Volatility: 200,
		},
		Investments: cashflow.Investments{Initial: 5000, Mu: 0.04, Sigma: 0.1},
	}
	result, err := cashflow.Run(context.Background(), sc)
	if err != nil {
		t.Fatal(err)
	}

	path := svgPath(t)
	if err := figure.WriteFan(path, "net worth", result); err != nil {
		t.Fatal(err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Fatalf("chart missing: %v", err)
	}
}

func TestWriteFan_Errors(t *testing.T) {
	if err := figure.WriteFan(svgPath(t), "", nil); !errors.Is(err, figure.ErrNoData) {
		t.Errorf("nil result: %v", err)
	}
	if err := figure.WriteFan("out.pdf", "", &cashflow.Result{}); !errors.Is(err, figure.ErrBadExtension) {
		t.Errorf("pdf: %v", err)
	}
}
