// Command popserve loads a population table once and serves the densified
// data over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"statepop/internal/app"
	"statepop/internal/config"
	"statepop/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "popserve: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the configuration from the config file, environment and flags
func loadConfig(args []string, stderr io.Writer) (*config.Config, error) {
	fs := pflag.NewFlagSet("popserve", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	input := fs.StringP("input", "i", config.DefaultInputFile, "input csv or xlsx file with raw population figures")
	columns := fs.StringSliceP("colnames", "c", config.DefaultColumns(), "state, year and population column names")
	port := fs.IntP("port", "p", config.DefaultPort, "HTTP port")
	configFile := fs.String("config", "", "optional YAML configuration file")
	logLevel := fs.String("log-level", "", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	paths, err := config.GetPaths()
	if err != nil {
		return nil, err
	}
	if *configFile == "" {
		*configFile = paths.DefaultConfigPath()
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	if fs.Changed("input") {
		cfg.Densify.Input = *input
	}
	if fs.Changed("colnames") {
		cfg.Densify.Columns = *columns
	}
	if fs.Changed("port") {
		cfg.Server.Port = *port
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.ResolveDensify(paths)
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	application, err := app.NewApplication(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return application.Run(ctx)
}
