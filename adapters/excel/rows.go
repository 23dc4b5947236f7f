package excel

import (
	"strings"
	"unicode/utf8"

	"effcost/domain/core"
	"effcost/domain/efficiency"
	"effcost/internal"
)

// ColumnIndex maps each required column to its position in the header
type ColumnIndex struct {
	Entry  int
	Ideal  int
	Actual int
	Extra  []string
}

// ResolveColumns checks that entry, ideal and actual each appear exactly once.
// Other columns are ignored unless strict is set.
func ResolveColumns(headers []string, strict bool) (ColumnIndex, error) {
	positions := make(map[string]int, len(headers))
	var extra []string

	for i, h := range headers {
		if !isRequired(h) {
			extra = append(extra, h)
			continue
		}
		if _, dup := positions[h]; dup {
			return ColumnIndex{}, core.NewMalformedInputError("column %q appears more than once in the header", h)
		}
		positions[h] = i
	}

	var missing []string
	for _, col := range efficiency.RequiredColumns {
		if _, ok := positions[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return ColumnIndex{}, core.NewMalformedInputError("header is missing required column(s) %s (found %s)",
			strings.Join(missing, ", "), strings.Join(headers, ", "))
	}
	if strict && len(extra) > 0 {
		return ColumnIndex{}, core.NewMalformedInputError("unexpected column(s) %s; only %s are allowed",
			strings.Join(extra, ", "), strings.Join(efficiency.RequiredColumns, ", "))
	}

	return ColumnIndex{
		Entry:  positions[efficiency.ColumnEntry],
		Ideal:  positions[efficiency.ColumnIdeal],
		Actual: positions[efficiency.ColumnActual],
		Extra:  extra,
	}, nil
}

// BuildRows validates the header and tags every ideal/actual cell
func BuildRows(data *TableData, config ReaderConfig, logger *internal.Logger) ([]efficiency.Row, error) {
	cols, err := ResolveColumns(data.Headers, config.StrictColumns)
	if err != nil {
		return nil, err
	}
	if len(cols.Extra) > 0 {
		logger.Debug("ignoring extra column(s): %s", strings.Join(cols.Extra, ", "))
	}
	if len(data.Rows) == 0 {
		return nil, core.NewMalformedInputError("no data rows after the header")
	}

	rows := make([]efficiency.Row, 0, len(data.Rows))
	for _, raw := range data.Rows {
		entry := raw.Cells[cols.Entry]
		if entry == "" {
			return nil, core.NewMalformedInputError("line %d: column %s is blank", raw.Line, efficiency.ColumnEntry)
		}
		// JSON output would fold distinct invalid names into the same key
		if !utf8.ValidString(entry) {
			return nil, core.NewMalformedInputError("line %d: column %s is not valid UTF-8 (%q)", raw.Line, efficiency.ColumnEntry, entry)
		}
		ideal := raw.Cells[cols.Ideal]
		if ideal == "" {
			return nil, core.NewMalformedInputError("line %d (entry %q): column %s is blank", raw.Line, entry, efficiency.ColumnIdeal)
		}
		actual := raw.Cells[cols.Actual]
		if actual == "" {
			return nil, core.NewMalformedInputError("line %d (entry %q): column %s is blank", raw.Line, entry, efficiency.ColumnActual)
		}

		row := efficiency.Row{
			Line:   raw.Line,
			Entry:  entry,
			Ideal:  efficiency.ParseField(ideal),
			Actual: efficiency.ParseField(actual),
		}
		logger.Trace("line %d: entry=%q ideal=%s(%s) actual=%s(%s)",
			row.Line, row.Entry, row.Ideal.Kind, row.Ideal, row.Actual.Kind, row.Actual)
		rows = append(rows, row)
	}
	return rows, nil
}

func isRequired(h string) bool {
	for _, col := range efficiency.RequiredColumns {
		if h == col {
			return true
		}
	}
	return false
}
