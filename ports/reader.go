package ports

import (
	"context"
	"io"

	"effcost/domain/efficiency"
)

// RowSource yields every input row of one report. Implementations read the
// whole table before returning and release their handles on all paths.
type RowSource interface {
	ReadRows(ctx context.Context) ([]efficiency.Row, error)
	// Name describes the source in logs (a path, "request body", ...)
	Name() string
}

// ReportRenderer writes a finished report in one output format
type ReportRenderer interface {
	Render(w io.Writer, report *efficiency.Report) error
	ContentType() string
}
