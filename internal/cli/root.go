// Package cli provides the stratify command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratify-labs/stratify/internal/cli/commands"
	"github.com/stratify-labs/stratify/internal/config"

	// Register warehouse adapters.
	_ "github.com/stratify-labs/stratify/pkg/adapters/duckdb"
	_ "github.com/stratify-labs/stratify/pkg/adapters/postgres"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		envFlag string
		app     = &commands.App{}
	)

	rootCmd := &cobra.Command{
		Use:   "stratify",
		Short: "Stratify - CRM/ERP warehouse pipeline",
		Long: `Stratify is a batch pipeline that turns CRM and ERP extracts into a
dimensional warehouse: it lands raw CSVs, cleanses them into a canonical
layer, and rebuilds surrogate-keyed dimension and fact tables.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Config is not needed (or may not exist yet) for these.
			switch cmd.Name() {
			case "help", "completion", "__complete", "init", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, envFlag, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			app.Config = cfg
			app.Logger = logger
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./stratify.yaml)")
	rootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "environment to run against (e.g. dev, prod)")
	rootCmd.PersistentFlags().String("raw-dir", "", "path to the raw extract directory")
	rootCmd.PersistentFlags().String("state-path", "", "path to the run history database")
	rootCmd.PersistentFlags().Int("concurrency", config.DefaultConcurrency, "max stages to execute in parallel")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewRunCommand(app))
	rootCmd.AddCommand(commands.NewLoadCommand(app))
	rootCmd.AddCommand(commands.NewValidateCommand(app))
	rootCmd.AddCommand(commands.NewRunsCommand(app))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
