package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/config"
	"github.com/Resaura/NeonScan-v2/internal/library"
	"github.com/Resaura/NeonScan-v2/internal/logging"
	"github.com/Resaura/NeonScan-v2/internal/storage"
)

var (
	// Global flags
	dbPath     string
	configPath string
	verbose    bool

	logger *zap.Logger
	cfg    config.Config
	paths  storage.Paths
	store  storage.Storage
	lib    *library.Library
)

// commands that run without an open library
var noStoreCommands = map[string]bool{
	"init":       true,
	"help":       true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "neonscan",
	Short: "NeonScan - a local library for scanned documents",
	Long: `NeonScan keeps scanned pages as titled documents in a local library.

Documents can be filed into colored folders, edited (rotate, crop,
brightness, contrast, color mode), converted between IMAGE, PDF, TEXT and
CSV, exported, and served over a local HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noStoreCommands[cmd.Name()] {
			return nil
		}

		resolved := dbPath
		if resolved == "" {
			found, err := storage.DiscoverDatabase()
			if err != nil {
				return err
			}
			resolved = found
		}

		var err error
		paths, err = storage.ResolvePaths(resolved)
		if err != nil {
			return err
		}
		if configPath == "" {
			configPath = paths.Config
		}
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		store, err = storage.NewStorage(context.Background(), &storage.Config{Path: paths.DB})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}

		scansDir := paths.ScansDir
		if cfg.ScansDir != "" {
			scansDir = cfg.ScansDir
		}
		lib = library.New(store, scansDir, cfg, logger).WithActor("cli")
		logger.Debug("library opened",
			zap.String("db", paths.DB), zap.String("scans", scansDir), zap.String("config", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: discover .neonscan/*.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: config.yaml next to the database)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fatal prints err and exits. Deferred cleanup does not run.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	if store != nil {
		_ = store.Close()
	}
	os.Exit(1)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func parseIDs(raw []string) ([]int64, error) {
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
