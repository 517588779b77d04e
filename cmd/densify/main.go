// Command densify reads sparse state population figures and writes one row
// per state and year, interpolating the years between known figures.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"statepop/internal/config"
	"statepop/internal/infrastructure"
	"statepop/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "densify: %v\n", err)
		os.Exit(1)
	}
}

// options holds the command line flags
type options struct {
	input    string
	output   string
	start    int
	end      int
	columns  []string
	config   string
	logLevel string
	flags    *pflag.FlagSet
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := pflag.NewFlagSet("densify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SortFlags = false

	fs.StringVarP(&opts.input, "input", "i", config.DefaultInputFile, "input csv or xlsx file with raw population figures")
	fs.StringVarP(&opts.output, "output", "o", config.DefaultOutputFile, "output csv or xlsx file")
	fs.IntVarP(&opts.start, "start", "s", config.DefaultStartYear, "first year to output")
	fs.IntVarP(&opts.end, "end", "e", config.DefaultEndYear, "last year to output")
	fs.StringSliceVarP(&opts.columns, "colnames", "c", config.DefaultColumns(), "state, year and population column names, comma or space separated")
	fs.StringVar(&opts.config, "config", "", "optional YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	// -c a b c: the words following the column list are more column names
	if fs.NArg() > 0 && fs.Changed("colnames") {
		opts.columns = append(opts.columns, fs.Args()...)
	} else if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	opts.flags = fs
	return opts, nil
}

// apply overlays the flags that were set explicitly onto cfg
func (o *options) apply(cfg *config.Config) {
	if o.flags.Changed("input") {
		cfg.Densify.Input = o.input
	}
	if o.flags.Changed("output") {
		cfg.Densify.Output = o.output
	}
	if o.flags.Changed("start") {
		cfg.Densify.StartYear = o.start
	}
	if o.flags.Changed("end") {
		cfg.Densify.EndYear = o.end
	}
	if o.flags.Changed("colnames") {
		cfg.Densify.Columns = o.columns
	}
	if o.flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	paths, err := config.GetPaths()
	if err != nil {
		return err
	}

	configFile := opts.config
	if configFile == "" {
		configFile = paths.DefaultConfigPath()
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.ResolveDensify(paths)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	logger.DebugContext(ctx, "Configuration loaded",
		slog.String("config_file", configFile),
		slog.String("input", cfg.Densify.Input),
		slog.String("output", cfg.Densify.Output),
		slog.Int("start_year", cfg.Densify.StartYear),
		slog.Int("end_year", cfg.Densify.EndYear),
		slog.Any("columns", cfg.Densify.Columns))

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}
	defer func() {
		if err := providers.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}()

	svc, err := services.NewPopulationService(providers, logger)
	if err != nil {
		return err
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	if _, err := svc.Densify(ctx, services.NewDensifyRequest(cfg.Densify)); err != nil {
		infrastructure.LoggerWithContext(ctx).Error("Densify failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
