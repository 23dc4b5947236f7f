package app

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"effcost/domain/core"
	"effcost/domain/efficiency"
	"effcost/domain/expr"
)

// Calculator turns rows into an efficiency report. It holds no state between calls.
type Calculator struct{}

// NewCalculator creates a calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

type resolvedRow struct {
	entry  string
	ideal  expr.Number
	actual expr.Number
}

// Compute resolves every row, accumulates totals in input order and derives
// the per-entry losses and the aggregate record.
func (c *Calculator) Compute(rows []efficiency.Row) (*efficiency.Report, error) {
	if len(rows) == 0 {
		return nil, core.NewMalformedInputError("no data rows")
	}

	resolved, err := c.resolve(rows)
	if err != nil {
		return nil, err
	}

	n := len(resolved)
	ideals := make([]float64, n)
	actuals := make([]float64, n)
	for i, r := range resolved {
		ideals[i] = r.ideal.Float64()
		actuals[i] = r.actual.Float64()
	}

	// stats.Sum adds in slice order, which keeps totals reproducible.
	totalIdeal, err := stats.Sum(ideals)
	if err != nil {
		return nil, err
	}
	totalActual, err := stats.Sum(actuals)
	if err != nil {
		return nil, err
	}
	if !finite(totalIdeal) || !finite(totalActual) {
		return nil, core.NewMalformedInputError("totals overflow float64")
	}
	if totalActual == 0 {
		return nil, core.NewDivisionByZeroTotalError(n)
	}

	deltas := make([]float64, n)
	floats.SubTo(deltas, actuals, ideals)

	losses := make([]float64, n)
	entries := make([]efficiency.EntryResult, n)
	for i, r := range resolved {
		losses[i] = deltas[i] / totalActual
		if !finite(losses[i]) {
			return nil, core.NewMalformedInputError("efficiency loss of entry %q is not finite (actual %s, ideal %s, total actual %g)",
				r.entry, r.actual, r.ideal, totalActual)
		}
		entries[i] = efficiency.EntryResult{
			Entry:          r.entry,
			Ideal:          r.ideal,
			Actual:         r.actual,
			EfficiencyLoss: losses[i],
		}
	}

	totalLoss, err := stats.Sum(losses)
	if err != nil {
		return nil, err
	}

	if !finite(totalLoss) || !finite(1-totalLoss) {
		return nil, core.NewMalformedInputError("total efficiency loss is not finite")
	}

	aggregate := efficiency.AggregateResult{
		TotalIdeal:          totalIdeal,
		TotalActual:         totalActual,
		TotalEfficiencyLoss: totalLoss,
		Efficiency:          1 - totalLoss,
	}
	return efficiency.NewReport(entries, aggregate), nil
}

func (c *Calculator) resolve(rows []efficiency.Row) ([]resolvedRow, error) {
	seen := make(map[string]int, len(rows))
	out := make([]resolvedRow, 0, len(rows))

	for _, row := range rows {
		if strings.TrimSpace(row.Entry) == "" {
			return nil, core.NewMalformedInputError("row %d: entry is empty", row.Line)
		}

		ideal, err := row.Ideal.Resolve()
		if err != nil {
			return nil, &core.EntryError{Entry: row.Entry, Row: row.Line, Field: efficiency.ColumnIdeal, Err: err}
		}
		actual, err := row.Actual.Resolve()
		if err != nil {
			return nil, &core.EntryError{Entry: row.Entry, Row: row.Line, Field: efficiency.ColumnActual, Err: err}
		}

		if row.Entry == efficiency.ReservedEntry {
			return nil, core.NewReservedEntryError(row.Entry, row.Line)
		}
		if first, dup := seen[row.Entry]; dup {
			return nil, core.NewDuplicateEntryError(row.Entry, first, row.Line)
		}
		seen[row.Entry] = row.Line

		out = append(out, resolvedRow{entry: row.Entry, ideal: ideal, actual: actual})
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
