package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stratify-labs/stratify/internal/config"
	"github.com/stratify-labs/stratify/internal/rawzone"
)

const configTemplate = `# Stratify pipeline configuration.
raw_dir: rawdata
state_path: .stratify/state.db
environment: dev
concurrency: 4

target:
  type: duckdb
  database: warehouse.duckdb

# validation:
#   min_birthdate: "1924-01-01"
#   disabled: [CS01]

# environments:
#   prod:
#     target:
#       type: postgres
#       host: db.internal
#       database: warehouse
#       user: etl
#       password: ${WAREHOUSE_PASSWORD}
`

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new stratify project",
		Long: `Initialize a stratify project: a stratify.yaml configuration file and a
rawdata directory for the source extracts.`,
		Example: `  # Initialize in the current directory
  stratify init

  # Initialize in a new directory
  stratify init my-warehouse`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")
	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileName)
	}
	if err := os.WriteFile(configPath, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileName, err)
	}

	rawDir := filepath.Join(dir, config.DefaultRawDir)
	if err := os.MkdirAll(rawDir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", rawDir, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n", configPath)
	fmt.Fprintf(out, "Created %s/\n", rawDir)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintf(out, "  1. Drop the source extracts into %s/:\n", config.DefaultRawDir)
	for _, ex := range rawzone.Extracts {
		fmt.Fprintf(out, "       %s\n", ex.File)
	}
	fmt.Fprintln(out, "  2. Run 'stratify run --load' to build the warehouse")
	fmt.Fprintln(out, "  3. Run 'stratify validate' to check data quality")
	return nil
}
