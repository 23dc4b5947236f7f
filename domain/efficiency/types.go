package efficiency

import (
	"strings"

	"effcost/domain/expr"
)

// ReservedEntry is the key of the aggregate record; no input row may use it.
const ReservedEntry = "RESULT"

// Column names required in the input header.
const (
	ColumnEntry  = "entry"
	ColumnIdeal  = "ideal"
	ColumnActual = "actual"
)

// RequiredColumns lists the header columns every input must carry.
var RequiredColumns = []string{ColumnEntry, ColumnIdeal, ColumnActual}

// FieldKind tags how a raw cell was classified when it was read.
type FieldKind int

const (
	FieldNumber FieldKind = iota
	FieldText
)

func (k FieldKind) String() string {
	if k == FieldNumber {
		return "number"
	}
	return "text"
}

// Field is a raw ideal/actual cell: either a number or expression text.
type Field struct {
	Kind   FieldKind
	Number expr.Number
	Text   string
}

// NumberField wraps an already numeric value.
func NumberField(n expr.Number) Field { return Field{Kind: FieldNumber, Number: n} }

// TextField wraps expression text.
func TextField(s string) Field { return Field{Kind: FieldText, Text: s} }

// ParseField classifies a raw cell. A single numeric literal becomes a number;
// everything else is kept as text for the expression evaluator.
func ParseField(raw string) Field {
	if n, ok := expr.ParseLiteral(raw); ok {
		return NumberField(n)
	}
	return TextField(strings.TrimSpace(raw))
}

// Resolve returns the numeric value of the field, evaluating text.
func (f Field) Resolve() (expr.Number, error) {
	if f.Kind == FieldNumber {
		return f.Number, nil
	}
	return expr.Eval(f.Text)
}

func (f Field) String() string {
	if f.Kind == FieldNumber {
		return f.Number.String()
	}
	return f.Text
}

// Row is one input record. Line is the 1-based position in the source
// (header included) used in error messages.
type Row struct {
	Line   int
	Entry  string
	Ideal  Field
	Actual Field
}

// EntryResult is the computed record for one entry.
type EntryResult struct {
	Entry          string      `json:"-"`
	Ideal          expr.Number `json:"ideal"`
	Actual         expr.Number `json:"actual"`
	EfficiencyLoss float64     `json:"efficiency_loss"`
}

// AggregateResult is the record emitted under ReservedEntry.
type AggregateResult struct {
	TotalIdeal          float64 `json:"total_ideal"`
	TotalActual         float64 `json:"total_actual"`
	TotalEfficiencyLoss float64 `json:"total_efficiency_loss"`
	Efficiency          float64 `json:"efficiency"`
}
