// Package cmd implements the sonoctl command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pitabwire/sonoctl/internal/catalog"
	"github.com/pitabwire/sonoctl/internal/config"
	"github.com/pitabwire/sonoctl/internal/observability"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X ...cmd.version=1.0.0"
var (
	version = "dev"
	commit  = "unknown"
)

var (
	cfgFile string
	jsonOut bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sonoctl",
	Short: "Execute UPnP operations against Sonos devices",
	Long: `sonoctl runs catalog operations against Sonos players over SOAP/UPnP.

The operation catalog ships with the binary; additional definition files can
be layered on through configuration. Use "sonoctl list" to see what the
catalog offers and "sonoctl exec" to invoke an operation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree, printing the final error itself so main
// stays a thin exit-code shim.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "sonoctl.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON on stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// app bundles the dependencies shared by every subcommand, built once per
// invocation.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	registry *catalog.Registry
	shutdown func(context.Context) error
}

// bootstrap loads configuration, initializes telemetry, and builds the
// operation catalog.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Observability.LogLevel = "debug"
	}

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	shutdown, err := observability.InitTracing(ctx, cfg.Observability.Tracing, "sonoctl", version)
	if err != nil {
		return nil, fmt.Errorf("initializing tracing: %w", err)
	}

	loader := catalog.NewLoader(logger)
	specs, err := loader.LoadBuiltin()
	if err != nil {
		return nil, err
	}
	if len(cfg.Definitions.Directories) > 0 {
		extra, err := loader.LoadDirs(cfg.Definitions.Directories)
		if err != nil {
			return nil, err
		}
		specs = append(specs, extra...)
	}

	services := catalog.DefaultServices()
	for name, info := range cfg.Services {
		services[name] = info
	}

	registry := catalog.NewRegistry(specs, services, logger)
	logger.Debug("catalog ready",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.Int("operations", len(registry.Operations())),
		zap.Int("services", len(services)))

	return &app{cfg: cfg, log: logger, registry: registry, shutdown: shutdown}, nil
}

// close flushes telemetry; it is safe to call on a partially built app.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if a.shutdown != nil {
		_ = a.shutdown(ctx)
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
