package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"effcost/adapters/excel"
	"effcost/adapters/render"
	"effcost/domain/core"
	"effcost/internal"
	"effcost/internal/errors"
)

func newTestService(logs *strings.Builder) *ReportService {
	return NewReportService(NewCalculator(), internal.NewLoggerTo(internal.LogLevelInfo, logs))
}

func csvSource(content string) *excel.StreamReader {
	return excel.NewStreamReader("test.csv", excel.FormatCSV, strings.NewReader(content),
		excel.DefaultReaderConfig(), internal.NewLoggerTo(internal.LogLevelError, &strings.Builder{}))
}

func TestReportService_Generate(t *testing.T) {
	var logs strings.Builder
	svc := newTestService(&logs)

	result, err := svc.Generate(context.Background(), ReportRequest{
		Source:   csvSource("entry,ideal,actual\nA,10,8\nB,5,5\n"),
		Renderer: render.NewJSONRenderer(),
	})
	require.NoError(t, err)

	assert.False(t, result.RunID.IsEmpty())
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, 13.0, result.Report.Aggregate.TotalActual)

	out := string(result.Output)
	assert.InDelta(t, 1.1538, gjson.Get(out, "RESULT.efficiency").Float(), 1e-4)
	assert.Contains(t, logs.String(), result.RunID.String())
}

func TestReportService_GenerateKeepsRunID(t *testing.T) {
	svc := newTestService(&strings.Builder{})
	runID := core.NewRunID()

	result, err := svc.Generate(context.Background(), ReportRequest{
		Source:   csvSource("entry,ideal,actual\nA,1,2\n"),
		Renderer: render.NewMarkdownRenderer(),
		RunID:    runID,
	})
	require.NoError(t, err)
	assert.Equal(t, runID, result.RunID)
	assert.Contains(t, string(result.Output), "| A | 1 | 2 |")
}

func TestReportService_GenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
		code    string
	}{
		{name: "malformed", content: "entry,ideal\nA,1\n", target: core.ErrMalformedInput, code: errors.CodeMalformedInput},
		{name: "zero total", content: "entry,ideal,actual\nA,0,0\n", target: core.ErrDivisionByZeroTotal, code: errors.CodeDivisionByZeroTotal},
		{name: "bad expression", content: "entry,ideal,actual\nA,os.system(1),0\n", target: core.ErrInvalidExpression, code: errors.CodeInvalidEntry},
		{name: "reserved", content: "entry,ideal,actual\nRESULT,1,1\n", target: core.ErrReservedEntryName, code: errors.CodeReservedEntryName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&strings.Builder{})
			result, err := svc.Generate(context.Background(), ReportRequest{
				Source:   csvSource(tt.content),
				Renderer: render.NewJSONRenderer(),
			})
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, tt.target)
			assert.Equal(t, tt.code, errors.GetCode(err))
			assert.Contains(t, err.Error(), "test.csv")
		})
	}
}
