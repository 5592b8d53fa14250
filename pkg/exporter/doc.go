// Package exporter renders a finished scan's report.Row slice in
// multiple file formats. The scan engine runs to completion before a
// report exists, so exporters here take a complete row slice rather
// than draining a result channel as the scans run.
//
// Supported Formats:
//
// 1. NDJSON (Newline-Delimited JSON) - Default
//
// Each result is a complete JSON object on its own line, ideal for streaming
// and log processing:
//
//	{"host":"192.168.1.1","port":22,"state":"open",...}
//	{"host":"192.168.1.1","port":80,"state":"open",...}
//
// 2. JSON Array
//
// Results wrapped in a JSON array with proper comma placement:
//
//	[
//	  {"host":"192.168.1.1","port":22,"state":"open",...},
//	  {"host":"192.168.1.1","port":80,"state":"open",...}
//	]
//
// 3. JSON Object with Metadata
//
// Complete scan results with metadata about the scan run:
//
//	{
//	  "scan_info": {
//	    "targets": ["192.168.1.1"],
//	    "start_time": "2025-01-15T10:30:00Z",
//	    "scan_rate": 7500
//	  },
//	  "results": [...]
//	}
//
// 4. CSV (Comma-Separated Values)
//
// Standard CSV format with headers, suitable for Excel/spreadsheets:
//
//	host,port,state,service
//	192.168.1.1,22,open,ssh
//
// Example Usage:
//
//	rows := report.Rows(store.Reports())
//
//	exp := exporter.NewJSONExporter(os.Stdout)
//	if err := exp.Export(rows); err != nil {
//	    log.Fatal(err)
//	}
//	defer exp.Close()
//
//	csvFile, _ := os.Create("results.csv")
//	csvExp := exporter.NewCSVExporter(csvFile)
//	_ = csvExp.Export(rows)
//	defer csvExp.Close()
//
// Security:
//
// All exporters handle CSV injection attacks by properly escaping fields.
// Special characters in service names are safely encoded.
package exporter
