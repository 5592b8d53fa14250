// Package report turns accumulated scan results into the shapes the CLI's
// output modes (table, JSON, CSV) actually render, replacing the
// streaming per-connection TUI this module's teacher built around a
// different (TCP-connect) execution model.
package report

import (
	"bytes"
	"sort"

	"github.com/lucchesi-sec/synprobe/internal/core"
	"github.com/lucchesi-sec/synprobe/pkg/services"
)

// Row is one finished port report, flattened for rendering.
type Row struct {
	Host    string
	Port    uint16
	Status  string
	Service string
}

// Rows flattens and sorts a Store's reports: by host (numeric address
// order, not string order), then by port.
func Rows(reports []*core.PortReport) []Row {
	sorted := append([]*core.PortReport{}, reports...)
	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if c := bytes.Compare(a.Host.To4(), b.Host.To4()); c != 0 {
			return c < 0
		}
		return a.Port < b.Port
	})

	rows := make([]Row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, Row{
			Host:    r.Host.String(),
			Port:    r.Port,
			Status:  r.Status.String(),
			Service: services.GetName(r.Port),
		})
	}
	return rows
}
