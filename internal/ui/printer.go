package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	runewidth "github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"modelfetch/internal/fetcher"
	"modelfetch/internal/history"
)

// Printer renders run summaries as aligned, optionally coloured tables.
type Printer struct {
	out     io.Writer
	success *color.Color
	failed  *color.Color
	header  *color.Color
	faint   *color.Color
}

// NewPrinter constructs a Printer with colour enabled only for TTY outputs without NO_COLOR.
func NewPrinter(out io.Writer) *Printer {
	if out == nil {
		out = os.Stdout
	}

	p := &Printer{
		out:     out,
		success: color.New(color.FgGreen, color.Bold),
		failed:  color.New(color.FgRed, color.Bold),
		header:  color.New(color.FgBlue, color.Bold),
		faint:   color.New(color.Faint),
	}
	p.SetColor(supportsColor(out) && os.Getenv("NO_COLOR") == "")
	return p
}

// SetColor forces colour output on or off.
func (p *Printer) SetColor(enabled bool) {
	for _, c := range []*color.Color{p.success, p.failed, p.header, p.faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// PrintSummary renders one row per result followed by a totals line.
func (p *Printer) PrintSummary(summary fetcher.Summary) {
	rows := make([][]string, 0, len(summary.Results))
	for _, r := range summary.Results {
		detail := humanize.IBytes(uint64(r.Bytes))
		if !r.OK() && r.Err != nil {
			detail = r.Err.Error()
		}
		rows = append(rows, []string{r.Entry.RelPath, string(r.Status), detail})
	}

	p.header.Fprintf(p.out, "%s\n", summaryTitle(summary))
	p.printTable([]string{"FILE", "STATUS", "DETAIL"}, rows, 1)

	totals := fmt.Sprintf("%d succeeded, %d failed, %s in %s",
		summary.Succeeded(), summary.Failed(),
		humanize.IBytes(uint64(summary.Bytes())),
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	if summary.Failed() > 0 {
		p.failed.Fprintln(p.out, totals)
	} else {
		p.success.Fprintln(p.out, totals)
	}
}

// PrintRuns renders recorded runs, newest first.
func (p *Printer) PrintRuns(runs []history.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(p.out, "No runs recorded.")
		return
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			r.Model,
			fmt.Sprintf("%d/%d", r.Succeeded, r.Total),
			humanize.IBytes(uint64(r.Bytes)),
			r.ID,
		})
	}
	p.printTable([]string{"STARTED", "MODEL", "OK", "SIZE", "RUN"}, rows, -1)
}

func summaryTitle(s fetcher.Summary) string {
	if s.Model == "" {
		return fmt.Sprintf("Run %s", s.RunID)
	}
	return fmt.Sprintf("%s (run %s)", s.Model, s.RunID)
}

// printTable pads columns by display width; statusCol, when >= 0, is coloured by value.
func (p *Printer) printTable(headers []string, rows [][]string, statusCol int) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	render := func(cells []string, style func(i int, padded string) string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			padded := cell
			if i < len(cells)-1 {
				padded = runewidth.FillRight(cell, widths[i])
			}
			parts[i] = style(i, padded)
		}
		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	render(headers, func(_ int, s string) string { return p.faint.Sprint(s) })
	for _, row := range rows {
		render(row, func(i int, s string) string {
			if i != statusCol {
				return s
			}
			if strings.TrimSpace(s) == string(fetcher.StatusSucceeded) {
				return p.success.Sprint(s)
			}
			return p.failed.Sprint(s)
		})
	}
}

func supportsColor(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
