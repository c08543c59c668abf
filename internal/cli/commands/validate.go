package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stratify-labs/stratify/internal/validate"
)

// ValidateOptions holds options for the validate command.
type ValidateOptions struct {
	Format string
	Strict bool
}

// maxViolationsShown caps the per-check detail listing in text output.
const maxViolationsShown = 20

// NewValidateCommand creates the validate command.
func NewValidateCommand(app *App) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run data quality checks",
		Long: `Run every enabled data quality check against the current canonical and
dimensional layers and report violations.

Checks are read-only and informational: findings never block or roll back
published tables. Use --strict to get a non-zero exit code when any
error-severity check finds violations (for CI).`,
		Example: `  # Report data quality
  stratify validate

  # Machine-readable output
  stratify validate --format json

  # Fail the build on error-severity findings
  stratify validate --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "Exit non-zero on error-severity violations")

	return cmd
}

func runValidate(cmd *cobra.Command, app *App, opts *ValidateOptions) error {
	eng, err := app.NewEngine()
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	reports, err := eng.Validate(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.Format {
	case "json":
		if err := renderReportsJSON(out, reports); err != nil {
			return err
		}
	default:
		renderReportSummary(out, reports)
		renderReportDetails(out, reports)
	}

	if opts.Strict {
		for _, r := range reports {
			if !r.Passed() && r.Severity == validate.SeverityError {
				return fmt.Errorf("quality check %s found %d violation(s)", r.CheckID, len(r.Violations))
			}
		}
	}
	return nil
}

func renderReportSummary(w io.Writer, reports []validate.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Check", "Name", "Severity", "Result", "Violations"})

	failed := 0
	for _, r := range reports {
		result := "pass"
		if !r.Passed() {
			result = "fail"
			failed++
		}
		t.AppendRow(table.Row{r.CheckID, r.CheckName, string(r.Severity), result, len(r.Violations)})
	}
	t.Render()

	if failed == 0 {
		fmt.Fprintf(w, "All %d checks passed\n", len(reports))
	} else {
		fmt.Fprintf(w, "%d of %d checks found violations\n", failed, len(reports))
	}
}

func renderReportDetails(w io.Writer, reports []validate.Report) {
	for _, r := range reports {
		if r.Passed() {
			continue
		}

		fmt.Fprintf(w, "\n%s %s (%s):\n", r.CheckID, r.CheckName, r.Severity)
		for i, v := range r.Violations {
			if i == maxViolationsShown {
				fmt.Fprintf(w, "  ... and %d more\n", len(r.Violations)-maxViolationsShown)
				break
			}
			fmt.Fprintf(w, "  %s: %s\n", v.Record, v.Detail)
		}
	}
}

func renderReportsJSON(w io.Writer, reports []validate.Report) error {
	type violationJSON struct {
		Record string `json:"record"`
		Detail string `json:"detail"`
	}
	type reportJSON struct {
		CheckID    string          `json:"check_id"`
		CheckName  string          `json:"check_name"`
		Severity   string          `json:"severity"`
		Passed     bool            `json:"passed"`
		Violations []violationJSON `json:"violations"`
	}

	out := make([]reportJSON, 0, len(reports))
	for _, r := range reports {
		rj := reportJSON{
			CheckID:    r.CheckID,
			CheckName:  r.CheckName,
			Severity:   string(r.Severity),
			Passed:     r.Passed(),
			Violations: make([]violationJSON, 0, len(r.Violations)),
		}
		for _, v := range r.Violations {
			rj.Violations = append(rj.Violations, violationJSON{Record: v.Record, Detail: v.Detail})
		}
		out = append(out, rj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
