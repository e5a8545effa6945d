package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"

	"github.com/roelvdberg/rekenblad/errors"
	"github.com/roelvdberg/rekenblad/loader"
	"github.com/roelvdberg/rekenblad/output"
	"github.com/roelvdberg/rekenblad/schema"
	"github.com/roelvdberg/rekenblad/telemetry"
)

type CheckCmd struct {
	File  FileOrStdin `help:"Template or document file (use '-' for stdin, or omit for stdin)." arg:"" optional:""`
	Watch bool        `help:"Re-validate whenever the file changes." short:"w"`
	JSON  bool        `help:"Emit validation errors as JSON."`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var checkTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				checkTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		checkTimer = collector.Start(fmt.Sprintf("check %s", filepath.Base(cmd.File.Filename)))
		runCtx = telemetry.WithRootTimer(runCtx, checkTimer)

		defer reportTelemetry()
	}

	if err := cmd.checkOnce(runCtx, ctx); err != nil {
		reportTelemetry()
		if !cmd.Watch {
			return err
		}
	}

	if !cmd.Watch {
		return nil
	}
	if cmd.File.IsStdin() {
		return fmt.Errorf("--watch requires a file, not stdin")
	}

	return cmd.watch(runCtx, ctx)
}

// checkOnce validates the file a single time. Both templates and
// documents are accepted; the loader tells them apart by shape.
func (cmd *CheckCmd) checkOnce(runCtx context.Context, ctx *kong.Context) error {
	content, err := cmd.File.GetSourceContent()
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	ldr := loader.New()
	absFilename := cmd.File.GetAbsoluteFilename()

	if loader.IsDocument(content) {
		_, err = ldr.LoadDocumentBytes(runCtx, absFilename, content)
	} else {
		_, err = ldr.LoadTemplateBytes(runCtx, absFilename, content)
	}

	if err != nil {
		var validationErrors *schema.ValidationErrors
		if stdErrors.As(err, &validationErrors) {
			if cmd.JSON {
				formatter := errors.NewJSONFormatter()
				_, _ = fmt.Fprintln(ctx.Stdout, formatter.FormatAll(validationErrors.Errors))
				return NewCommandError(1)
			}

			renderer := NewErrorRenderer()
			formatted := renderer.RenderAll(validationErrors.Errors)
			_, _ = fmt.Fprintln(ctx.Stderr, formatted)

			_, _ = fmt.Fprintln(ctx.Stderr)
			printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(validationErrors.Errors)))
			return NewCommandError(1)
		}

		printError(ctx.Stderr, err.Error())
		return NewCommandError(1)
	}

	if !cmd.JSON {
		printSuccess(ctx.Stdout, "Check passed")
	}
	return nil
}

// watch re-validates on every write to the file. The parent directory
// is watched instead of the file itself, so editors that replace the
// file on save keep triggering.
func (cmd *CheckCmd) watch(runCtx context.Context, ctx *kong.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	absFilename := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(filepath.Dir(absFilename)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", absFilename, err)
	}

	printInfof(ctx.Stdout, "Watching %s", pathStyle.Render(absFilename))

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != absFilename {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			_, _ = fmt.Fprintln(ctx.Stdout)
			printInfof(ctx.Stdout, "Change detected, re-validating")
			_ = cmd.checkOnce(runCtx, ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %s", err))
		}
	}
}
