package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"shiftreport/internal/config"
	"shiftreport/internal/log"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "shiftreport",
	Short: "Daily shift takings and expenses report per branch",
	Long: `shiftreport keeps one table of daily shift takings per branch,
computes each day's net and the branch totals, and exports the report as
HTML, CSV, XLSX or PDF.

Configuration is read from the environment. A .env file in the working
directory is loaded first when present.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if envFile != "" {
			LoadEnvFile(envFile)
		} else {
			LoadEnvFile()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file instead of ./.env")
}

// Execute runs the command line.
func Execute() error {
	return rootCmd.Execute()
}

// bootstrap loads configuration, installs the logger and wires the app.
func bootstrap(ctx context.Context) (*App, error) {
	cfg, err := LoadAndValidateConfig()
	if err != nil {
		return nil, err
	}
	logger := SetupLogger(cfg)
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		logger.ErrorContext(ctx, "Startup failed",
			log.FieldOperation, log.OpStartup,
			log.FieldBackend, cfg.DataBackend,
			log.FieldError, err)
		return nil, fmt.Errorf("startup: %w", err)
	}
	return app, nil
}

// presentationHeaders returns the configured column labels.
func presentationHeaders(p config.Presentation) []string {
	return p.Columns.Headers()
}
