package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lucchesi-sec/synprobe/internal/report"
)

// maxFieldLength is the maximum allowed length for CSV fields to prevent abuse.
const maxFieldLength = 256

// CSVExporter exports a finished scan's rows to CSV format.
type CSVExporter struct {
	writer    io.Writer
	csvWriter *csv.Writer
}

// NewCSVExporter creates a new CSV exporter that writes to the given writer.
func NewCSVExporter(w io.Writer) *CSVExporter {
	csvWriter := csv.NewWriter(w)
	_ = csvWriter.Write([]string{"host", "port", "state", "service"})
	return &CSVExporter{
		writer:    w,
		csvWriter: csvWriter,
	}
}

// sanitizeCSVField sanitizes a CSV field to prevent formula injection attacks.
// It strips leading formula characters (=, +, -, @), caps field length,
// and escapes dangerous patterns that could be executed in spreadsheet applications.
func sanitizeCSVField(field string) string {
	if field == "" {
		return field
	}

	field = strings.TrimSpace(field)
	field = strings.TrimLeft(field, "=+-@")

	if len(field) > maxFieldLength {
		field = field[:maxFieldLength]
	}

	if len(field) > 0 && (field[0] == '\t' || field[0] == '\r' || field[0] == '\n') {
		field = "'" + field
	}

	return field
}

// Export writes rows to CSV format.
func (e *CSVExporter) Export(rows []report.Row) error {
	for _, r := range rows {
		record := []string{
			sanitizeCSVField(r.Host),
			fmt.Sprintf("%d", r.Port),
			sanitizeCSVField(r.Status),
			sanitizeCSVField(r.Service),
		}
		if err := e.csvWriter.Write(record); err != nil {
			return err
		}
	}
	e.csvWriter.Flush()
	return e.csvWriter.Error()
}

// Close flushes the CSV writer and returns any errors.
func (e *CSVExporter) Close() error {
	e.csvWriter.Flush()
	return e.csvWriter.Error()
}
