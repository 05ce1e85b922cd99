package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show library contents and server state",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := lib.Status(context.Background())
		if err != nil {
			fatal(fmt.Errorf("failed to read library status: %w", err))
		}

		fmt.Printf("\n%s\n\n", bold("=== NeonScan Library ==="))
		fmt.Printf("  Root:      %s\n", cyan(paths.Root))
		fmt.Printf("  Database:  %s %s\n", cyan(paths.DB), gray(fmt.Sprintf("(schema v%d)", st.SchemaVersion)))
		fmt.Printf("  Scans:     %s\n", cyan(lib.ScansDir()))
		fmt.Println()
		fmt.Printf("  Documents: %d %s\n", st.Documents, gray(fmt.Sprintf("(%d unfiled)", st.Unfiled)))
		fmt.Printf("  Folders:   %d\n", st.Folders)
		fmt.Printf("  Events:    %d\n", st.Events)

		eventTypes := make([]string, 0, len(st.EventsByType))
		for t := range st.EventsByType {
			eventTypes = append(eventTypes, t)
		}
		sort.Strings(eventTypes)
		for _, t := range eventTypes {
			fmt.Printf("    %s %d\n", gray(fmt.Sprintf("%-24s", t)), st.EventsByType[t])
		}
		if st.LastCleanup.IsZero() {
			fmt.Printf("  Pruned:    %s\n", gray("never"))
		} else {
			fmt.Printf("  Pruned:    %s\n", st.LastCleanup.Format(time.RFC3339))
		}
		fmt.Println()

		lock, err := storage.ReadServerLock(filepath.Join(filepath.Dir(paths.DB), storage.LockFileName))
		switch {
		case err != nil:
			fmt.Printf("%s %v\n", yellow("Server:"), err)
		case lock == nil:
			fmt.Printf("%s %s\n", yellow("Server:"), gray("not running"))
		default:
			fmt.Printf("%s %s\n", yellow("Server:"), formatServerLock(lock, lock.Alive()))
		}
		fmt.Println()
	},
}

// formatServerLock describes the server holding lock. A lock whose process is
// gone is shown as stale.
func formatServerLock(lock *storage.ServerLock, alive bool) string {
	details := gray(fmt.Sprintf("(PID %d on %s, since %s)", lock.PID, lock.Hostname, lock.StartedAt.Format(time.RFC3339)))
	if !alive {
		return fmt.Sprintf("%s %s %s", yellow("stale"), bold(lock.Addr), details)
	}
	return fmt.Sprintf("%s on %s %s", green("●"), bold(lock.Addr), details)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
