package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/events"
)

// Note: displayActivityEvent and related helper functions are in event_display.go

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent library activity",
	Long: `Display the activity log: captures, renames, moves, edits,
conversions, deletions and folder changes.

Examples:
  neonscan activity                       # Show last 20 events
  neonscan activity -n 50                 # Show last 50 events
  neonscan activity --document 12         # Events for one document
  neonscan activity --folder 3            # Events for one folder
  neonscan activity --type document_converted`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		documentRaw, _ := cmd.Flags().GetString("document")
		folderRaw, _ := cmd.Flags().GetString("folder")
		eventType, _ := cmd.Flags().GetString("type")

		filter := events.EventFilter{Limit: limit, Type: events.EventType(eventType)}
		if documentRaw != "" {
			id, err := parseID(documentRaw)
			if err != nil {
				fatal(err)
			}
			filter.DocumentID = &id
		}
		if folderRaw != "" {
			id, err := parseID(folderRaw)
			if err != nil {
				fatal(err)
			}
			filter.FolderID = &id
		}

		eventList, err := lib.Activity(context.Background(), filter)
		if err != nil {
			fatal(fmt.Errorf("failed to fetch events: %w", err))
		}
		if len(eventList) == 0 {
			fmt.Printf("%s\n", gray("No activity"))
			return
		}

		// Oldest first so the newest ends up at the bottom of the terminal
		for i := len(eventList) - 1; i >= 0; i-- {
			displayActivityEvent(eventList[i])
		}
	},
}

func init() {
	rootCmd.AddCommand(activityCmd)
	activityCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	activityCmd.Flags().String("document", "", "Only events for this document")
	activityCmd.Flags().String("folder", "", "Only events for this folder")
	activityCmd.Flags().String("type", "", "Only events of this type")
}
