package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BadgerOps/tclabpack/internal/codec"
	"github.com/BadgerOps/tclabpack/internal/config"
	"github.com/BadgerOps/tclabpack/internal/store"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgPath   string
	logLevel  string
	logFormat string
	quiet     bool
	noHistory bool
	globalCfg *config.Config
	logger    *slog.Logger

	// Global components
	globalStore    *store.Store
	globalRegistry *codec.Registry
)

// initializeComponents builds the codec registry and opens the history store
func initializeComponents(cmdName string) error {
	if globalCfg == nil {
		return fmt.Errorf("config not loaded")
	}

	globalRegistry = codec.NewRegistry(globalCfg.RegistryOptions()...)

	if noHistory || !globalCfg.History.Enabled || !needsStore(cmdName) {
		return nil
	}

	dbPath := globalCfg.HistoryDBPath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating history directory: %w", err)
	}
	st, err := store.New(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open history store: %w", err)
	}
	globalStore = st

	logger.Debug("components initialized", "history_db", dbPath)
	return nil
}

// needsStore reports whether a command reads or writes batch history
func needsStore(cmdName string) bool {
	storeCmds := map[string]bool{
		"compress":   true,
		"decompress": true,
		"history":    true,
	}
	return storeCmds[cmdName]
}

// closeStore closes the history store connection
func closeStore() {
	if globalStore != nil {
		if err := globalStore.Close(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
		globalStore = nil
	}
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tclabpack",
		Short: "Compress and restore TCLab simulation output files",
		Long: `tclabpack compresses the CSV time series written by TCLab simulation runs,
one file at a time, and restores them again. Each file keeps its name and
gains a suffix for the codec used (.zst, .xz or .gz). Batches are best
effort: a file that fails is reported and the rest of the folder is still
processed.`,
		Example: `  tclabpack list
  tclabpack compress --folder output --codec zstd --level 3
  tclabpack compress --folder output --codec gzip --pattern "*.csv" --no-keep
  tclabpack decompress --folder output --output descomp
  tclabpack history --limit 10`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()

			if shouldSkipConfig(cmd.Name()) {
				return nil
			}

			if cfgPath == "" {
				var err error
				cfgPath, err = config.FindConfigFile()
				if err != nil {
					logger.Debug("config file not found, using defaults", "error", err)
				}
			}

			if cfgPath != "" {
				var err error
				globalCfg, err = config.Load(cfgPath)
				if err != nil {
					return fmt.Errorf("failed to load config: %w", err)
				}
			} else {
				globalCfg = config.DefaultConfig()
			}

			logger.Debug("config loaded", "path", cfgPath)

			if err := initializeComponents(cmd.Name()); err != nil {
				return fmt.Errorf("failed to initialize components: %w", err)
			}

			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeStore()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (auto-discovered if not specified)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	cmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "suppress non-error output")
	cmd.PersistentFlags().BoolVar(&noHistory, "no-history", false, "do not record or read batch history")

	cmd.AddCommand(
		newListCmd(),
		newCompressCmd(),
		newDecompressCmd(),
		newHistoryCmd(),
		newConfigCmd(),
	)

	return cmd
}

// setupLogging initializes the slog logger based on flags
func setupLogging() {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}
	if quiet && level < slog.LevelError {
		level = slog.LevelError
	}

	var handler slog.Handler
	if strings.ToLower(logFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger = slog.New(handler)
	slog.SetDefault(logger)
}

// shouldSkipConfig checks if a command should skip config loading
func shouldSkipConfig(cmdName string) bool {
	skipConfigCmds := map[string]bool{
		"help":    true,
		"version": true,
	}
	return skipConfigCmds[cmdName]
}
