package app

import (
	"bytes"
	"context"
	"time"

	"effcost/domain/core"
	"effcost/domain/efficiency"
	"effcost/internal"
	"effcost/internal/errors"
	"effcost/ports"
)

// ReportService reads a row source, computes the report and renders it
type ReportService struct {
	calculator *Calculator
	logger     *internal.Logger
}

// ReportRequest defines the inputs for one report
type ReportRequest struct {
	Source   ports.RowSource
	Renderer ports.ReportRenderer
	RunID    core.RunID // optional, will be generated if empty
}

// ReportResult contains the rendered output and the computed report
type ReportResult struct {
	RunID     core.RunID
	Report    *efficiency.Report
	Output    []byte
	RowCount  int
	RuntimeMs int64
}

// NewReportService creates a report service
func NewReportService(calculator *Calculator, logger *internal.Logger) *ReportService {
	return &ReportService{
		calculator: calculator,
		logger:     logger.Named("ReportService"),
	}
}

// Generate runs the whole pipeline. Output is rendered into memory, so callers
// receive either the complete report or an error and nothing else.
func (s *ReportService) Generate(ctx context.Context, req ReportRequest) (*ReportResult, error) {
	startTime := time.Now()

	runID := req.RunID
	if runID.IsEmpty() {
		runID = core.NewRunID()
	}
	s.logger.Info("run %s: reading %s", runID, req.Source.Name())

	rows, err := req.Source.ReadRows(ctx)
	if err != nil {
		s.logger.Warn("run %s: read failed: %v", runID, err)
		return nil, errors.Wrapf(err, "read %s", req.Source.Name())
	}

	report, err := s.calculator.Compute(rows)
	if err != nil {
		s.logger.Warn("run %s: compute failed: %v", runID, err)
		return nil, errors.Wrapf(err, "compute report for %s", req.Source.Name())
	}

	var out bytes.Buffer
	if err := req.Renderer.Render(&out, report); err != nil {
		return nil, errors.WithCode(errors.CodeInternalError, errors.Wrap(err, "render report"))
	}

	result := &ReportResult{
		RunID:     runID,
		Report:    report,
		Output:    out.Bytes(),
		RowCount:  len(rows),
		RuntimeMs: time.Since(startTime).Milliseconds(),
	}
	s.logger.Info("run %s: %d entries, efficiency %.6g, %dms",
		runID, len(report.Entries), report.Aggregate.Efficiency, result.RuntimeMs)
	return result, nil
}
