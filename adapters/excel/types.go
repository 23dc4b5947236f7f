package excel

// Supported input formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// RawRow is one data row as trimmed cell strings, aligned with the header
type RawRow struct {
	Line  int // 1-based line (CSV) or sheet row (XLSX)
	Cells []string
}

// TableData represents the complete tabular dataset before field tagging
type TableData struct {
	Headers []string
	Rows    []RawRow
}
