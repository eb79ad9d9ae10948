package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsinha/mrpatp/pkg/infrastructure/config"
	"github.com/vsinha/mrpatp/pkg/infrastructure/logging"
	"github.com/vsinha/mrpatp/pkg/interfaces/cli/output"
)

// rootOptions are the global flags; empty values keep the environment configuration
type rootOptions struct {
	dataSource string
	dataDir    string
	format     string
	logLevel   string
}

// NewRootCommand builds the mrp command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "mrp",
		Short: "Material requirements planning and available-to-promise",
		Long: `mrp explodes demand through bills of material, nets it against supply,
checks kit availability, suggests purchases and answers ATP/CTP queries.

Configuration is read from the environment (and an optional .env file).
Global flags override the matching variables:
  --data-source  DATA_SOURCE (memory, csv, postgres)
  --data-dir     DATA_DIR (csv scenario directory)
  --log-level    LOG_LEVEL`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.dataSource, "data-source", "", "Data source: memory, csv or postgres")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Scenario directory for the csv data source")
	cmd.PersistentFlags().StringVarP(&opts.format, "format", "f", string(output.FormatText), "Output format: text, json, csv")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(
		newPlanCommand(opts),
		newExplodeCommand(opts),
		newATPCommand(opts),
		newCTPCommand(opts),
		newServeCommand(opts),
	)
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// loadConfig reads the environment and applies flag overrides
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.dataSource != "" {
		switch o.dataSource {
		case "memory", "csv", "postgres":
			cfg.DataSource = o.dataSource
		default:
			return nil, fmt.Errorf("--data-source must be one of memory, csv, postgres, got %q", o.dataSource)
		}
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

// openApp loads configuration and wires the application
func (o *rootOptions) openApp(ctx context.Context) (*App, output.Format, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, "", err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, "", err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create logger: %w", err)
	}
	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, "", err
	}
	return app, format, nil
}
