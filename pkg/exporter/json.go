package exporter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/lucchesi-sec/synprobe/internal/report"
)

// JSONExporter exports a finished scan's rows in JSON format (NDJSON,
// array, or object).
type JSONExporter struct {
	writer     io.Writer
	encoder    *json.Encoder
	arrayMode  bool
	objectMode bool
	// metadata for object mode
	metadata ScanMetadata
}

// ScanMetadata holds metadata about a scan for inclusion in JSON export.
type ScanMetadata struct {
	Targets    []string
	TotalPorts int
	Rate       int
	StartTime  time.Time
	EndTime    time.Time
}

// rowDTO is the JSON shape of a single report.Row.
func rowDTO(r report.Row) map[string]interface{} {
	return map[string]interface{}{
		"host":    r.Host,
		"port":    r.Port,
		"state":   r.Status,
		"service": r.Service,
	}
}

// NewJSONExporter creates a new NDJSON exporter that writes one JSON object per line.
func NewJSONExporter(w io.Writer) *JSONExporter {
	return &JSONExporter{
		writer:  w,
		encoder: json.NewEncoder(w),
	}
}

// NewJSONExporterArray returns a JSON exporter that writes a single JSON array of rows.
func NewJSONExporterArray(w io.Writer) *JSONExporter {
	return &JSONExporter{
		writer:    w,
		encoder:   json.NewEncoder(w),
		arrayMode: true,
	}
}

// NewJSONExporterObject returns a JSON exporter that writes a single JSON
// object with a results array and a scan_info metadata section.
func NewJSONExporterObject(w io.Writer, target string, totalPorts int, scanRate int) *JSONExporter {
	return &JSONExporter{
		writer:     w,
		encoder:    json.NewEncoder(w),
		objectMode: true,
		metadata: ScanMetadata{
			Targets:    []string{target},
			TotalPorts: totalPorts,
			Rate:       scanRate,
		},
	}
}

// NewJSONExporterObjectWithMetadata creates a JSON object exporter with custom metadata.
func NewJSONExporterObjectWithMetadata(w io.Writer, meta ScanMetadata) *JSONExporter {
	copyTargets := make([]string, len(meta.Targets))
	copy(copyTargets, meta.Targets)
	meta.Targets = copyTargets
	return &JSONExporter{
		writer:     w,
		encoder:    json.NewEncoder(w),
		objectMode: true,
		metadata:   meta,
	}
}

// Export writes rows in the configured JSON format. The engine runs to
// completion before a report exists, so unlike the teacher's
// per-connection streaming exporter this takes the whole result set at
// once rather than draining an event channel.
func (e *JSONExporter) Export(rows []report.Row) error {
	switch {
	case e.objectMode:
		return e.exportObject(rows)
	case e.arrayMode:
		return e.exportArray(rows)
	default:
		return e.exportNDJSON(rows)
	}
}

func (e *JSONExporter) exportObject(rows []report.Row) error {
	if _, err := e.writer.Write([]byte("{\n\"results\": [")); err != nil {
		return err
	}
	for i, r := range rows {
		if i > 0 {
			if _, err := e.writer.Write([]byte(",")); err != nil {
				return err
			}
		}
		b, err := json.Marshal(rowDTO(r))
		if err != nil {
			return err
		}
		if _, err := e.writer.Write(b); err != nil {
			return err
		}
	}
	if _, err := e.writer.Write([]byte("]")); err != nil {
		return err
	}

	info := map[string]interface{}{
		"targets":     e.metadata.Targets,
		"total_ports": e.metadata.TotalPorts,
		"scan_rate":   e.metadata.Rate,
	}
	if !e.metadata.StartTime.IsZero() {
		info["start_time"] = e.metadata.StartTime.UTC().Format(time.RFC3339)
	}
	if !e.metadata.EndTime.IsZero() {
		info["end_time"] = e.metadata.EndTime.UTC().Format(time.RFC3339)
	}
	b, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if _, err := e.writer.Write([]byte(",\n\"scan_info\": ")); err != nil {
		return err
	}
	if _, err := e.writer.Write(b); err != nil {
		return err
	}
	_, err = e.writer.Write([]byte("}\n"))
	return err
}

func (e *JSONExporter) exportArray(rows []report.Row) error {
	if _, err := e.writer.Write([]byte("[")); err != nil {
		return err
	}
	for i, r := range rows {
		if i > 0 {
			if _, err := e.writer.Write([]byte(",")); err != nil {
				return err
			}
		}
		b, err := json.Marshal(rowDTO(r))
		if err != nil {
			return err
		}
		if _, err := e.writer.Write(b); err != nil {
			return err
		}
	}
	_, err := e.writer.Write([]byte("]\n"))
	return err
}

func (e *JSONExporter) exportNDJSON(rows []report.Row) error {
	for _, r := range rows {
		if err := e.encoder.Encode(rowDTO(r)); err != nil {
			return err
		}
	}
	return nil
}

// Close is a no-op for JSON exporters.
func (e *JSONExporter) Close() error {
	return nil
}
