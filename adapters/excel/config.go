package excel

// ReaderConfig holds configuration for tabular row sources
type ReaderConfig struct {
	// StrictColumns rejects headers carrying columns other than entry, ideal, actual.
	StrictColumns bool `json:"strict_columns"`
	// MaxRows caps the number of data rows; 0 means unlimited.
	MaxRows int `json:"max_rows"`
	// Sheet selects the workbook sheet; empty means the first sheet.
	Sheet string `json:"sheet"`
}

// DefaultReaderConfig returns sensible defaults for row reading
func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		StrictColumns: false,
		MaxRows:       100000,
	}
}
