package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stratify-labs/stratify/internal/state"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Load     bool
	Validate bool
}

// NewRunCommand creates the run command.
func NewRunCommand(app *App) *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline",
		Long: `Execute the pipeline: cleanse every source entity into the canonical
layer, then rebuild the dimension and fact tables.

Stages run in dependency order; independent stages run concurrently up to
--concurrency. The first failing stage aborts the run and everything
downstream is skipped.`,
		Example: `  # Run against already-landed raw data
  stratify run

  # Land the raw extracts first, then run
  stratify run --load

  # Run and report data quality afterwards
  stratify run --validate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, app, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Load, "load", false, "Land the raw extracts before running")
	cmd.Flags().BoolVar(&opts.Validate, "validate", false, "Run quality checks after the pipeline")

	return cmd
}

func runRun(cmd *cobra.Command, app *App, opts *RunOptions) error {
	eng, err := app.NewEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	startTime := time.Now()

	if opts.Load {
		fmt.Fprintln(out, "Landing raw extracts...")
		if err := eng.LoadRaw(ctx); err != nil {
			return fmt.Errorf("failed to load raw zone: %w", err)
		}
	}

	run, runErr := eng.Run(ctx)
	if run != nil {
		stages, err := eng.Store().ListStageRuns(run.ID)
		if err == nil {
			renderStageTable(out, stages)
		}
		fmt.Fprintf(out, "Run %s: %s\n", run.ID, run.Status)
		if run.Error != "" {
			fmt.Fprintf(out, "Error: %s\n", run.Error)
		}
	}
	if runErr != nil {
		return fmt.Errorf("run failed: %w", runErr)
	}

	if opts.Validate {
		reports, err := eng.Validate(ctx)
		if err != nil {
			return fmt.Errorf("validation failed to execute: %w", err)
		}
		renderReportSummary(out, reports)
	}

	fmt.Fprintf(out, "Completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	return nil
}

func renderStageTable(w io.Writer, stages []*state.StageRun) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Stage", "Status", "Rows", "Elapsed"})

	for _, s := range stages {
		rows := fmt.Sprintf("%d", s.Rows)
		elapsed := (time.Duration(s.ElapsedMS) * time.Millisecond).String()
		if s.Status == state.StageStatusSkipped {
			rows, elapsed = "-", "-"
		}
		t.AppendRow(table.Row{s.Stage, string(s.Status), rows, elapsed})
	}
	t.Render()
}
