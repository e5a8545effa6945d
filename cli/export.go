package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/roelvdberg/rekenblad/export"
	"github.com/roelvdberg/rekenblad/loader"
	"github.com/roelvdberg/rekenblad/output"
	"github.com/roelvdberg/rekenblad/telemetry"
)

type ExportCmd struct {
	File  FileOrStdin `help:"Document file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Out   string      `help:"Output xlsx path (defaults to the document name with .xlsx)." short:"o"`
	Force bool        `help:"Overwrite the output file without confirmation." short:"f"`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var exportTimer telemetry.Timer

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		exportTimer = collector.Start(fmt.Sprintf("export %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, exportTimer)

		defer func() {
			exportTimer.End()
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

	outPath := cmd.Out
	if outPath == "" {
		if cmd.File.IsStdin() {
			return fmt.Errorf("stdin input requires --out")
		}
		base := cmd.File.Filename
		outPath = strings.TrimSuffix(base, filepath.Ext(base)) + ".xlsx"
	}

	if _, err := os.Stat(outPath); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q exists. Overwrite?", outPath))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Export cancelled")
			return nil
		}
	}

	buildTimer := rootTimer.Child("build workbook")
	workbook, err := export.Build(doc)
	buildTimer.End()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	writeTimer := rootTimer.Child("write file")
	err = workbook.SaveAs(outPath)
	writeTimer.End()
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d rows to %s",
		len(doc.Rows), pathStyle.Render(outPath)))

	return nil
}
