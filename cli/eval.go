package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/roelvdberg/rekenblad/engine"
	"github.com/roelvdberg/rekenblad/format"
	"github.com/roelvdberg/rekenblad/loader"
	"github.com/roelvdberg/rekenblad/output"
	"github.com/roelvdberg/rekenblad/schema"
	"github.com/roelvdberg/rekenblad/telemetry"
)

var (
	gridHeaderStyle = lipgloss.NewStyle().Bold(true)
	gridTotalStyle  = lipgloss.NewStyle().Bold(true)
	gridDimStyle    = lipgloss.NewStyle().Faint(true)
)

type EvalCmd struct {
	File FileOrStdin `help:"Document file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
}

func (cmd *EvalCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var evalTimer telemetry.Timer

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		evalTimer = collector.Start(fmt.Sprintf("eval %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, evalTimer)

		defer func() {
			evalTimer.End()
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	rootTimer := telemetry.RootTimerFromContext(runCtx)

	loadTimer := rootTimer.Child("load document")
	ldr := loader.New()
	doc, err := cmd.File.LoadDocument(runCtx, ldr)
	loadTimer.End()
	if err != nil {
		renderer := NewErrorRenderer()
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, "document failed validation")
		return NewCommandError(1)
	}

	compiled, err := doc.Compile()
	if err != nil {
		return err
	}

	rowsTimer := rootTimer.Child("evaluate rows")
	evaluator, err := engine.ForDocument(doc)
	if err != nil {
		return err
	}
	results := evaluator.Rows(doc.Rows)
	rowsTimer.End()

	totalsTimer := rootTimer.Child("footer totals")
	totals := engine.Aggregate(&doc.Footer, results)
	totalsTimer.End()

	if doc.Meta.Name != "" {
		_, _ = fmt.Fprintln(ctx.Stdout, gridHeaderStyle.Render(doc.Meta.Name))
		_, _ = fmt.Fprintln(ctx.Stdout)
	}

	renderGrid(ctx.Stdout, compiled, results, totals, &doc.Footer)

	return nil
}

// renderGrid prints the evaluated document as an aligned table:
// header, data rows, a totals row for the summed columns, and the
// invoice block when the footer asks for one.
func renderGrid(w io.Writer, compiled *schema.Compiled, rows []map[string]engine.Value, totals *engine.Totals, footer *schema.FooterConfig) {
	var cols []schema.Column
	for _, col := range compiled.Columns {
		if col.Visible {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return
	}

	summed := make(map[string]bool, len(footer.SummedColumnIDs))
	for _, id := range footer.SummedColumnIDs {
		summed[id] = true
	}

	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, col := range cols {
		headers[i] = col.Name
		widths[i] = runewidth.StringWidth(col.Name)
	}

	cells := make([][]string, len(rows))
	for r, row := range rows {
		cells[r] = make([]string, len(cols))
		for i := range cols {
			text := formatCell(&cols[i], row[cols[i].ID])
			cells[r][i] = text
			if width := runewidth.StringWidth(text); width > widths[i] {
				widths[i] = width
			}
		}
	}

	totalCells := make([]string, len(cols))
	for i := range cols {
		if i == 0 && !summed[cols[i].ID] {
			totalCells[i] = "Totaal"
		} else if sum, ok := totals.Sums[cols[i].ID]; ok && summed[cols[i].ID] {
			totalCells[i] = formatCell(&cols[i], engine.Number(sum))
		}
		if width := runewidth.StringWidth(totalCells[i]); width > widths[i] {
			widths[i] = width
		}
	}

	writeLine := func(parts []string, style lipgloss.Style) {
		rendered := make([]string, len(parts))
		for i, part := range parts {
			rendered[i] = padCell(part, widths[i], cols[i].Type.IsNumeric())
		}
		_, _ = fmt.Fprintln(w, style.Render(strings.Join(rendered, "  ")))
	}

	writeLine(headers, gridHeaderStyle)

	rules := make([]string, len(cols))
	gridWidth := 0
	for i, width := range widths {
		rules[i] = strings.Repeat("─", width)
		gridWidth += width + 2
	}
	writeLine(rules, gridDimStyle)

	for _, row := range cells {
		writeLine(row, lipgloss.NewStyle())
	}

	writeLine(rules, gridDimStyle)
	writeLine(totalCells, gridTotalStyle)

	if totals.HasInvoice {
		_, _ = fmt.Fprintln(w)
		labelWidth := runewidth.StringWidth("BTW " + footer.VATPercentage.String() + "%")
		printAmount := func(label string, text string, style lipgloss.Style) {
			_, _ = fmt.Fprintln(w, style.Render(fmt.Sprintf("%s  %s",
				padCell(label, labelWidth, false), text)))
		}

		printAmount("Subtotaal", format.Euro(totals.Subtotal), lipgloss.NewStyle())
		if footer.ShowVAT {
			printAmount("BTW "+footer.VATPercentage.String()+"%", format.Euro(totals.VAT), lipgloss.NewStyle())
		}
		printAmount("Totaal", format.Euro(totals.Total), gridTotalStyle)
	}

	if termWidth, ok := terminalWidth(); ok && gridWidth > termWidth {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, gridDimStyle.Render(
			fmt.Sprintf("grid is %d columns wide, terminal is %d", gridWidth, termWidth)))
	}
}

// formatCell renders one value per its column's display hint: decimal
// hours as HH:MM, currency in the Dutch locale, dates as dd-mm-yyyy.
// Null renders empty.
func formatCell(col *schema.Column, v engine.Value) string {
	if v.IsNull() {
		return ""
	}

	switch col.DisplayHint() {
	case schema.DisplayClock:
		if n, ok := v.Number(); ok {
			return format.DecimalHoursToClock(n)
		}
	case schema.DisplayCurrency:
		if n, ok := v.Number(); ok {
			return format.Euro(n)
		}
	}

	if col.Type == schema.TypeDate {
		if t, ok := v.Date(); ok {
			return t.Format("02-01-2006")
		}
	}

	if n, ok := v.Number(); ok {
		return n.String()
	}
	if s, ok := v.Text(); ok {
		return s
	}
	if b, ok := v.Bool(); ok {
		if b {
			return "waar"
		}
		return "onwaar"
	}
	return ""
}

// padCell pads display-width aware, right-aligning numeric columns.
func padCell(s string, width int, alignRight bool) string {
	gap := width - runewidth.StringWidth(s)
	if gap < 0 {
		gap = 0
	}
	if alignRight {
		return strings.Repeat(" ", gap) + s
	}
	return s + strings.Repeat(" ", gap)
}

func terminalWidth() (int, bool) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
