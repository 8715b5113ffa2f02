package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"ridership/internal/config"
	"ridership/internal/files"
	"ridership/internal/infrastructure"
	"ridership/internal/operations"
	"ridership/internal/scraper"
)

// app holds what the subcommands share once the root command has set it up
type app struct {
	stdout io.Writer
	stderr io.Writer

	configFile string

	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	telemetry *infrastructure.TelemetryProviders
	tracer    *operations.StepTracer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "ridership",
		Short: "Clean monthly transit ridership data",
		Long: `ridership loads a raw ridership CSV, normalizes its columns and routes,
derives month end dates, days in month and ridership per day, and writes the
cleaned table to the processed data directory.

Configuration is read from config.yaml (or configs/config.yaml), .env and
RIDERSHIP_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "path to a YAML config file")

	root.AddCommand(newProcessCmd(a))
	root.AddCommand(newScrapeCmd(a))

	return root
}

func newProcessCmd(a *app) *cobra.Command {
	var in, out string
	var latest, scrapeFirst bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Transform the raw ridership file into the cleaned file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest && scrapeFirst {
				return fmt.Errorf("--latest and --scrape are mutually exclusive")
			}
			if latest {
				if in != "" {
					return fmt.Errorf("--in and --latest are mutually exclusive")
				}
				found, err := files.NewDiscovery(a.paths.BaseDir).LatestTable(a.paths.RawDir)
				if err != nil {
					return err
				}
				in = found.Path
			}
			return a.process(cmd.Context(), in, out, scrapeFirst)
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "raw input file (default: configured raw file)")
	cmd.Flags().StringVar(&out, "out", "", "cleaned output file (default: configured processed file)")
	cmd.Flags().BoolVar(&latest, "latest", false, "process the newest CSV or Excel file in the raw directory")
	cmd.Flags().BoolVar(&scrapeFirst, "scrape", false, "scrape a fresh raw file before processing")
	return cmd
}

func newScrapeCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Download monthly ridership tables into the raw file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.scrape(cmd.Context(), out)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "raw output file (default: configured raw file)")
	return cmd
}

// setup loads configuration, then logging, then telemetry
func (a *app) setup() error {
	var err error
	if a.configFile != "" {
		a.cfg, err = config.LoadFile(a.configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	a.paths, err = config.NewPaths(a.cfg.Paths)
	if err != nil {
		return err
	}
	a.cfg.Logging.FilePath = a.paths.Resolve(a.cfg.Logging.FilePath)
	a.cfg.Metrics.TextfilePath = a.paths.Resolve(a.cfg.Metrics.TextfilePath)

	a.logger, err = infrastructure.InitializeLogger(a.cfg.Logging, a.stderr)
	if err != nil {
		return err
	}
	a.paths.LogPathResolution(a.logger)

	a.telemetry, err = infrastructure.InitializeTelemetry(infrastructure.TelemetryConfig{
		Tracing:     a.cfg.Tracing,
		Metrics:     a.cfg.Metrics,
		TraceWriter: a.stderr,
	}, a.logger)
	if err != nil {
		return err
	}

	a.tracer, err = operations.NewStepTracerFromProviders(a.telemetry)
	return err
}

func (a *app) process(ctx context.Context, in, out string, scrapeFirst bool) error {
	opts := operations.Options{
		Paths:      a.paths,
		InputPath:  in,
		OutputPath: out,
		Precision:  a.cfg.Transform.PerDayPrecision,
		Tracer:     a.tracer,
		Logger:     a.logger,
	}
	if scrapeFirst {
		opts.Fetcher = scraper.New(a.cfg.Scraper, a.tracer.Metrics(), a.logger)
	}

	state, err := operations.Run(ctx, opts)
	printSummary(a.stdout, state)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Wrote %d rows to %s\n", state.Result.Nrow(), state.OutputPath)
	return nil
}

func (a *app) scrape(ctx context.Context, out string) error {
	if err := a.paths.EnsureDirectories(); err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	result, err := scraper.New(a.cfg.Scraper, a.tracer.Metrics(), a.logger).
		Run(ctx, a.paths.ResolveInput(out))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Scraped %d pages, %d rows to %s\n", result.Pages, result.Rows, result.Path)
	return nil
}

// shutdown writes the metrics textfile and releases telemetry and the log file.
// It is safe to call when setup never ran or failed part way.
func (a *app) shutdown(ctx context.Context) {
	if a.telemetry != nil {
		if a.cfg.Metrics.Enabled {
			if err := a.telemetry.WriteMetrics(a.cfg.Metrics.TextfilePath); err != nil {
				a.logger.Warn("Failed to write metrics", slog.String("error", err.Error()))
			}
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.telemetry.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}

	_ = infrastructure.CloseLogFile()
}

func printSummary(w io.Writer, state *operations.OperationState) {
	if state == nil {
		return
	}
	for _, s := range state.Summary() {
		line := fmt.Sprintf("%-10s %-9s", s.ID, s.Status)
		if s.Rows > 0 {
			line += fmt.Sprintf(" rows=%d", s.Rows)
		}
		if s.Duration > 0 {
			line += fmt.Sprintf(" %s", s.Duration.Round(time.Millisecond))
		}
		fmt.Fprintln(w, line)
	}
}
