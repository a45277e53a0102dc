package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ============================================================================
// EXPORT — Snapshot reports and normalized dataset files
// ============================================================================
//   report formats:  json, csv, xlsx
//   dataset formats: json, csv, parquet
// ============================================================================

// Format names an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatParquet Format = "parquet"
)

// Export errors
var (
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrUnsupportedFormat = errors.New("format not supported for this export")
)

// ParseFormat resolves a format name or file extension.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatJSON, FormatCSV, FormatXLSX, FormatParquet:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for f, with the dot.
func (f Format) Extension() string { return "." + string(f) }

// ContentType returns the MIME type used for uploads.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
