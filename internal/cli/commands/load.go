package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stratify-labs/stratify/internal/rawzone"
)

// NewLoadCommand creates the load command.
func NewLoadCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Land the raw extracts",
		Long: `Land the source CSV extracts from the raw data directory into the raw
schema of the warehouse. Files are landed verbatim with every column kept
as text; no cleansing happens at this step.`,
		Example: `  # Land extracts from the configured raw directory
  stratify load

  # Land extracts from somewhere else
  stratify load --raw-dir /srv/extracts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := app.NewEngine()
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			if err := eng.LoadRaw(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, ex := range rawzone.Extracts {
				fmt.Fprintf(out, "  %s -> %s\n", ex.File, ex.Table)
			}
			fmt.Fprintf(out, "Landed %d extracts from %s\n", len(rawzone.Extracts), app.Config.RawDir)
			return nil
		},
	}
}
