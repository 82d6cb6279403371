// Package cli provides the command-line interface for baribar.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/adilzhanb/baribar/internal/config"
	"github.com/adilzhanb/baribar/internal/semantic"
	"github.com/adilzhanb/baribar/internal/service"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	configFile   string
	synonymFile  string
	locationFile string
	verbose      bool
	showStats    bool

	// Global config and engine, built in PersistentPreRunE.
	cfg config.Config
	svc *service.MatchService

	loggerCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "baribar",
	Short: "Barter marketplace matching engine",
	Long: `Baribar matches participants of a cashless goods/services exchange:
it scores value equivalence, cross-script label similarity and location
overlap, ranks bilateral matches, and discovers multi-party exchange rings.

The engine reads immutable listing snapshots (YAML) exported by the
marketplace; it never talks to storage itself.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()
		if configFile != "" {
			var err error
			cfg, err = config.LoadFile(cfg, configFile)
			if err != nil {
				return err
			}
		}
		if verbose {
			cfg.LogLevel = slog.LevelDebug
		}

		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		loggerCleanup = cleanup

		provider, err := semantic.NewFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("create semantic provider: %w", err)
		}

		opts := service.Options{
			SynonymFile:  synonymFile,
			LocationFile: locationFile,
		}
		if provider != nil {
			opts.Semantic = provider
			slog.Info("semantic provider enabled", "model", provider.Model())
		}

		svc, err = service.New(cfg, opts)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if loggerCleanup != nil {
			_ = loggerCleanup()
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "engine configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&synonymFile, "synonyms", "", "synonym table overlay (YAML)")
	rootCmd.PersistentFlags().StringVar(&locationFile, "locations", "", "city alias/distance overlay (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "print engine metrics after the run")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(chainsCmd)
	rootCmd.AddCommand(pairCmd)
}
