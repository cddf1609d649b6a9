// Package cli implements gradesctl, the command-line companion of the
// dashboard. It reads the same sources and prints or exports the same
// tables without starting a server.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"gradesdash/internal/config"
	"gradesdash/internal/grades"
	"gradesdash/internal/i18n"
	"gradesdash/internal/infrastructure"
	"gradesdash/internal/services"
)

type rootOptions struct {
	configFile string
	source     string
	lang       string
	backfill   bool
	noColor    bool
	logLevel   string
}

// NewRootCommand builds the gradesctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "gradesctl",
		Short: "Inspect and export student grades from the command line",
		Long: `gradesctl loads a grades CSV (file, URL or Google Sheet) and prints the
summary and exam tables the dashboard shows, or writes them as CSV or XLSX.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				color.NoColor = true
			}
			if !i18n.Supported(opts.lang) {
				return fmt.Errorf("unsupported language %q", opts.lang)
			}
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "YAML config file (data section only)")
	flags.StringVarP(&opts.source, "source", "s", "", "CSV file path or URL; overrides the configured source")
	flags.StringVarP(&opts.lang, "lang", "l", "en", "table language (en or es)")
	flags.BoolVar(&opts.backfill, "backfill", false, "fill missing school years with averaged rows")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	cmd.AddCommand(
		newSummaryCommand(opts),
		newExamsCommand(opts),
		newExportCommand(opts),
		newHashPasswordCommand(),
		newVersionCommand(),
	)
	return cmd
}

// Execute runs gradesctl with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return infrastructure.NewLogger(cmd.ErrOrStderr(), o.logLevel, false)
}

// dashboard loads the dataset once and wraps it in a DashboardService.
func (o *rootOptions) dashboard(cmd *cobra.Command) (*services.DashboardService, error) {
	ctx := cmd.Context()
	logger := o.logger(cmd)

	cfg, err := config.LoadData(o.configFile)
	if err != nil {
		return nil, err
	}
	if o.source != "" {
		cfg.Data.Source = o.source
		cfg.Data.Sheets.SpreadsheetID = ""
	}

	levels := cfg.Data.Levels
	if len(levels) == 0 {
		levels = grades.DefaultLevels
	}

	var src grades.Source
	if cfg.UsesSheets() {
		sheetsCfg := cfg.Data.Sheets
		if src, err = grades.NewSheetsSource(ctx, grades.SheetsOptions{
			SpreadsheetID:   sheetsCfg.SpreadsheetID,
			Range:           sheetsCfg.Range,
			CredentialsFile: sheetsCfg.CredentialsFile,
			APIKey:          sheetsCfg.APIKey,
		}); err != nil {
			return nil, err
		}
	} else {
		src = grades.NewSource(cfg.Data.Source, cfg.Data.FetchTimeout)
	}

	var loadOpts grades.LoadOptions
	if o.backfill || cfg.Data.BackfillYears {
		loadOpts.BackfillLevels = levels
	}

	ds, err := grades.Load(ctx, src, loadOpts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", src.Name(), err)
	}
	logger.DebugContext(ctx, "dataset loaded",
		slog.String("source", ds.Source),
		slog.Int("rows", len(ds.Summaries)))

	return services.NewDashboardService(grades.NewStore(ds), levels, nil, nil, logger), nil
}
