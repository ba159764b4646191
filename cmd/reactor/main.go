package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactor/internal/config"
	rerrors "github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/cell"
	"github.com/vango-dev/reactor/pkg/instrument"
	"github.com/vango-dev/reactor/pkg/reactor"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "reactor",
		Short: "Lazy dependency-tracking reactive objects",
		Long: `Reactor turns plain object properties into observable cells on first
write and derived properties into memoized computations.

  demo     run a scripted session and print every notification
  serve    serve a live model over HTTP and websocket`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to "+config.ConfigFileName)

	rootCmd.AddCommand(
		demoCmd(),
		serveCmd(&configPath),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		rerrors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads path, or reactor.yaml in the working directory when path
// is empty. A missing default file yields the defaults.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
		var re *rerrors.ReactorError
		if errors.As(err, &re) && re.Code == "R021" {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup installs the logger and engine observers described by cfg. The
// returned registry holds the engine metrics when they are enabled.
func setup(cfg *config.Config) (*slog.Logger, *prometheus.Registry) {
	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	cell.SetLogger(logger)
	reactor.Logger = logger
	reactor.Debug = cfg.Log.SlogLevel() <= slog.LevelDebug

	reg := prometheus.NewRegistry()
	var observers []reactor.Observer
	if cfg.Metrics.Enabled {
		observers = append(observers, instrument.NewMetrics(
			instrument.WithRegistry(reg),
			instrument.WithNamespace(cfg.Metrics.Namespace),
			instrument.WithSubsystem(cfg.Metrics.Subsystem),
		))
	}
	if cfg.Tracing.Enabled {
		var opts []instrument.TracingOption
		if cfg.Tracing.Tracer != "" {
			opts = append(opts, instrument.WithTracerName(cfg.Tracing.Tracer))
		}
		observers = append(observers, instrument.NewTracing(opts...))
	}
	reactor.SetObserver(instrument.Multi(observers...))
	return logger, reg
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
