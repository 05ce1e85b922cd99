package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/api"
	"github.com/Resaura/NeonScan-v2/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the library over a local HTTP API",
	Long: `Serve the library over a JSON HTTP API until interrupted.

Only one server may run per library; a lock file next to the database
records the owning process. Events older than events.retention_days are
pruned on startup when events.cleanup_enabled is set.

Examples:
  neonscan serve
  neonscan serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.API.Addr
		}

		lockPath, err := storage.AcquireServerLock(paths.DB, addr)
		if err != nil {
			return err
		}
		defer func() {
			if err := storage.ReleaseServerLock(lockPath); err != nil {
				logger.Warn("failed to release server lock", zap.Error(err))
			}
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if result, err := lib.CleanupEvents(ctx); err != nil {
			logger.Warn("event cleanup failed", zap.Error(err))
		} else if result.Deleted > 0 {
			fmt.Printf("%s Pruned %d old events\n", gray("→"), result.Deleted)
		}

		fmt.Printf("%s Serving %s on %s\n", green("✓"), cyan(paths.Root), bold("http://"+addr))
		fmt.Printf("  %s\n", gray("Press Ctrl+C to stop"))

		server := api.New(lib, cfg.API, logger.Named("api"))
		if err := server.Serve(ctx, addr); err != nil {
			return err
		}
		fmt.Printf("%s Stopped\n", gray("→"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (default: api.addr from config)")
}
