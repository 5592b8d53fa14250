package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lucchesi-sec/synprobe/internal/core"
	"github.com/lucchesi-sec/synprobe/pkg/theme"
)

// Printer renders a finished scan as a static, styled table. It replaces
// the teacher's streaming TUI: this module's engine runs to completion
// before any output is produced, so there is nothing left to animate.
type Printer struct {
	Theme   theme.Theme
	NoColor bool
}

// NewPrinter builds a Printer for the named theme. An unrecognized name
// falls back to the default theme, matching theme.GetTheme's own behavior.
func NewPrinter(themeName string, noColor bool) *Printer {
	return &Printer{Theme: theme.GetTheme(themeName), NoColor: noColor}
}

// Print writes the table for rows to w. Column widths are computed from
// the data itself so the table never truncates a host, port, or service
// name.
func (p *Printer) Print(w io.Writer, rows []Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, p.style(p.Theme.StatusStyle()).Render("no results to report"))
		return
	}

	hostW, portW, statusW, svcW := len("HOST"), len("PORT"), len("STATUS"), len("SERVICE")
	for _, r := range rows {
		hostW = maxLen(hostW, r.Host)
		portW = maxLen(portW, fmt.Sprintf("%d", r.Port))
		statusW = maxLen(statusW, r.Status)
		svcW = maxLen(svcW, r.Service)
	}

	header := p.style(p.Theme.HeaderStyle()).Render(
		pad("HOST", hostW) + "  " + pad("PORT", portW) + "  " + pad("STATUS", statusW) + "  " + pad("SERVICE", svcW),
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", hostW+portW+statusW+svcW+6))

	var open, closed, filtered int
	for _, r := range rows {
		line := fmt.Sprintf("%s  %s  %s  %s",
			pad(r.Host, hostW), pad(fmt.Sprintf("%d", r.Port), portW),
			pad(r.Status, statusW), pad(r.Service, svcW))
		fmt.Fprintln(w, p.style(p.statusStyle(r.Status)).Render(line))

		switch r.Status {
		case core.StatusOpen.String():
			open++
		case core.StatusClosed.String():
			closed++
		case core.StatusFiltered.String(), core.StatusUnfiltered.String(), core.StatusOpenOrFiltered.String():
			filtered++
		}
	}

	footer := fmt.Sprintf("%d reported, %d open, %d closed, %d filtered", len(rows), open, closed, filtered)
	fmt.Fprintln(w, p.style(p.Theme.FooterStyle()).Render(footer))
}

func (p *Printer) statusStyle(status string) lipgloss.Style {
	switch status {
	case core.StatusOpen.String():
		return p.Theme.SuccessStyle()
	case core.StatusClosed.String():
		return p.Theme.ErrorStyle()
	case core.StatusFiltered.String(), core.StatusUnfiltered.String(), core.StatusOpenOrFiltered.String():
		return p.Theme.WarningStyle()
	default:
		return p.Theme.StatusStyle()
	}
}

func (p *Printer) style(s lipgloss.Style) lipgloss.Style {
	if p.NoColor {
		return s.UnsetForeground().UnsetBackground()
	}
	return s
}

func maxLen(current int, s string) int {
	if len(s) > current {
		return len(s)
	}
	return current
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
