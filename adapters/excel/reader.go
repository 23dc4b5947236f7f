package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"effcost/domain/core"
	"effcost/domain/efficiency"
	"effcost/internal"
)

const utf8BOM = "\ufeff"

// DataReader reads rows from a CSV or XLSX file on disk
type DataReader struct {
	filePath string
	fileType string
	config   ReaderConfig
	logger   *internal.Logger
}

// NewDataReader creates a reader; the format follows the file extension
// (.xlsx for workbooks, anything else is read as comma-separated text).
func NewDataReader(filePath string, config ReaderConfig, logger *internal.Logger) *DataReader {
	fileType := FormatCSV
	if strings.EqualFold(filepath.Ext(filePath), ".xlsx") {
		fileType = FormatXLSX
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		config:   config,
		logger:   logger.Named("DataReader"),
	}
}

// Name returns the file path
func (r *DataReader) Name() string { return r.filePath }

// ReadRows reads the file and converts it into tagged rows
func (r *DataReader) ReadRows(ctx context.Context) ([]efficiency.Row, error) {
	data, err := r.ReadData(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRows(data, r.config, r.logger)
}

// ReadData reads the file into header-aligned string rows
func (r *DataReader) ReadData(ctx context.Context) (*TableData, error) {
	r.logger.Debug("Starting to read %s file: %s", r.fileType, r.filePath)

	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, core.NewMalformedInputError("cannot open %s: %v", r.filePath, err)
	}
	defer file.Close()

	start := time.Now()
	data, err := decode(ctx, r.fileType, file, r.config)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s file read in %.2fms (%d columns, %d rows)",
		strings.ToUpper(r.fileType), float64(time.Since(start).Nanoseconds())/1e6, len(data.Headers), len(data.Rows))
	return data, nil
}

// StreamReader reads rows from an already open stream, such as a request body
type StreamReader struct {
	name   string
	format string
	src    io.Reader
	config ReaderConfig
	logger *internal.Logger
}

// NewStreamReader creates a stream reader for FormatCSV or FormatXLSX content
func NewStreamReader(name, format string, src io.Reader, config ReaderConfig, logger *internal.Logger) *StreamReader {
	return &StreamReader{
		name:   name,
		format: format,
		src:    src,
		config: config,
		logger: logger.Named("StreamReader"),
	}
}

// Name returns the stream description
func (r *StreamReader) Name() string { return r.name }

// ReadRows reads the stream and converts it into tagged rows
func (r *StreamReader) ReadRows(ctx context.Context) ([]efficiency.Row, error) {
	data, err := decode(ctx, r.format, r.src, r.config)
	if err != nil {
		return nil, err
	}
	return BuildRows(data, r.config, r.logger)
}

func decode(ctx context.Context, format string, src io.Reader, config ReaderConfig) (*TableData, error) {
	switch format {
	case FormatCSV:
		return readCSV(ctx, src, config)
	case FormatXLSX:
		return readXLSX(ctx, src, config)
	default:
		return nil, core.NewMalformedInputError("unsupported input format %q", format)
	}
}

// readCSV reads comma-separated records, keeping the source line of each row
func readCSV(ctx context.Context, src io.Reader, config ReaderConfig) (*TableData, error) {
	reader := csv.NewReader(src)
	reader.Comma = ','

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.NewMalformedInputError("input is empty, expected a header row")
	}
	if err != nil {
		return nil, csvError(err)
	}

	data := &TableData{Headers: normalizeHeader(header)}
	for {
		if len(data.Rows)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(0)
		if err := appendRow(data, line, record, config); err != nil {
			return nil, err
		}
	}
	return data, nil
}

// readXLSX reads the configured sheet (or the first one) of a workbook
func readXLSX(ctx context.Context, src io.Reader, config ReaderConfig) (*TableData, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, core.NewMalformedInputError("cannot open workbook: %v", err)
	}
	defer f.Close()

	sheet := config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	// raw values keep numeric cells at full precision instead of the display format
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, core.NewMalformedInputError("cannot read sheet %q: %v", sheet, err)
	}
	if len(rows) == 0 {
		return nil, core.NewMalformedInputError("sheet %q is empty, expected a header row", sheet)
	}

	data := &TableData{Headers: normalizeHeader(rows[0])}
	for i := 1; i < len(rows); i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		// GetRows drops trailing empty cells
		cells := rows[i]
		for len(cells) < len(data.Headers) {
			cells = append(cells, "")
		}
		if err := appendRow(data, i+1, cells, config); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func appendRow(data *TableData, line int, record []string, config ReaderConfig) error {
	cells := make([]string, len(record))
	blank := true
	for i, cell := range record {
		cells[i] = strings.TrimSpace(cell)
		if cells[i] != "" {
			blank = false
		}
	}
	// spreadsheet exports often end with rows of empty separators
	if blank {
		return nil
	}
	if config.MaxRows > 0 && len(data.Rows) >= config.MaxRows {
		return core.NewMalformedInputError("more than %d data rows", config.MaxRows)
	}
	data.Rows = append(data.Rows, RawRow{Line: line, Cells: cells})
	return nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func csvError(err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return core.NewMalformedInputError("line %d: %v", parseErr.Line, parseErr.Err)
	}
	return core.NewMalformedInputError("read csv: %v", err)
}
