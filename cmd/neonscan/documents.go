package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents",
	Long: `List documents, newest first.

Examples:
  neonscan list                  # Every document
  neonscan list --folder 3       # Documents in folder 3
  neonscan list --unfiled        # Documents in no folder
  neonscan list --type pdf --asc # PDFs, oldest first`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		folderRaw, _ := cmd.Flags().GetString("folder")
		unfiled, _ := cmd.Flags().GetBool("unfiled")
		typeRaw, _ := cmd.Flags().GetString("type")
		asc, _ := cmd.Flags().GetBool("asc")

		filter := types.DefaultDocumentFilter()
		filter.SortDescending = !asc
		if typeRaw != "" {
			t, err := types.ParseScanTypeStrict(typeRaw)
			if err != nil {
				fatal(err)
			}
			filter.Type = &t
		}

		var folderID *int64
		scoped := unfiled
		if folderRaw != "" {
			if unfiled {
				fatal(fmt.Errorf("--folder and --unfiled cannot be combined"))
			}
			id, err := parseID(folderRaw)
			if err != nil {
				fatal(err)
			}
			folderID, scoped = &id, true
		}

		docs, err := lib.List(context.Background(), scoped, folderID, filter)
		if err != nil {
			fatal(err)
		}
		printDocuments(docs)
	},
}

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent documents",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		docs, err := lib.Recent(context.Background(), limit)
		if err != nil {
			fatal(err)
		}
		printDocuments(docs)
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one document",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		doc, err := lib.Get(context.Background(), id)
		if err != nil {
			fatal(err)
		}
		printDocument(doc)
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a document",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		doc, err := lib.Rename(context.Background(), id, strings.Join(args[1:], " "))
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s Renamed %s to %s\n", green("✓"), bold(fmt.Sprintf("#%d", doc.ID)), doc.Title)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete documents and their files",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			fatal(err)
		}
		for _, id := range ids {
			if err := lib.Delete(context.Background(), id); err != nil {
				fatal(err)
			}
			fmt.Printf("%s Deleted document #%d\n", green("✓"), id)
		}
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <folder-id|none> <id>...",
	Short: "File documents into a folder",
	Long: `File documents into a folder, or take them out of any folder with "none".

Examples:
  neonscan move 2 14 15
  neonscan move none 14`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		var folderID *int64
		if !strings.EqualFold(args[0], "none") {
			id, err := parseID(args[0])
			if err != nil {
				fatal(err)
			}
			folderID = &id
		}
		ids, err := parseIDs(args[1:])
		if err != nil {
			fatal(err)
		}
		if err := lib.Assign(context.Background(), ids, folderID); err != nil {
			fatal(err)
		}
		if folderID == nil {
			fmt.Printf("%s Removed %d document(s) from their folder\n", green("✓"), len(ids))
			return
		}
		fmt.Printf("%s Moved %d document(s) to folder %d\n", green("✓"), len(ids), *folderID)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <id> <dir>",
	Short: "Copy a document's pages into a directory",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		written, err := lib.Export(context.Background(), id, args[1])
		if err != nil {
			fatal(err)
		}
		for _, p := range written {
			fmt.Printf("%s %s\n", green("✓"), cyan(p))
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(exportCmd)

	listCmd.Flags().String("folder", "", "Only documents in this folder")
	listCmd.Flags().Bool("unfiled", false, "Only documents in no folder")
	listCmd.Flags().String("type", "", "Only documents of this type ("+scanTypeNames()+")")
	listCmd.Flags().Bool("asc", false, "Oldest first")

	recentCmd.Flags().IntP("limit", "n", 0, "Number of documents (default: recent_limit from config)")
}
