package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var folderCmd = &cobra.Command{
	Use:   "folder",
	Short: "Manage folders",
}

var folderCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a folder",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		colorHex, _ := cmd.Flags().GetString("color")
		ctx := context.Background()
		folder, err := lib.CreateFolder(ctx, strings.Join(args, " "))
		if err != nil {
			fatal(err)
		}
		if colorHex != "" {
			folder, err = lib.UpdateFolder(ctx, folder.ID, folder.Name, colorHex)
			if err != nil {
				fatal(err)
			}
		}
		fmt.Printf("%s Created folder %s\n", green("✓"), formatFolderLine(folder))
	},
}

var folderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List folders in display order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		folders, err := lib.Folders(context.Background())
		if err != nil {
			fatal(err)
		}
		printFolders(folders)
	},
}

var folderShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a folder and its documents",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		ctx := context.Background()
		folder, err := lib.Folder(ctx, id)
		if err != nil {
			fatal(err)
		}
		docs, err := lib.ByFolder(ctx, &id)
		if err != nil {
			fatal(err)
		}
		fmt.Println(formatFolderLine(folder))
		fmt.Println()
		printDocuments(docs)
	},
}

var folderUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename or recolor a folder",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name, _ := cmd.Flags().GetString("name")
		colorHex, _ := cmd.Flags().GetString("color")
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		ctx := context.Background()
		if name == "" {
			current, err := lib.Folder(ctx, id)
			if err != nil {
				fatal(err)
			}
			name = current.Name
		}
		folder, err := lib.UpdateFolder(ctx, id, name, colorHex)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s Updated folder %s\n", green("✓"), formatFolderLine(folder))
	},
}

var folderDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a folder; its documents become unfiled",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		if err := lib.DeleteFolder(context.Background(), id); err != nil {
			fatal(err)
		}
		fmt.Printf("%s Deleted folder %d\n", green("✓"), id)
	},
}

var folderReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Set the folder display order",
	Long: `Set the folder display order. Folders are listed in the order given.

Example:
  neonscan folder reorder 4 1 2`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			fatal(err)
		}
		folders, err := lib.ReorderFolders(context.Background(), ids)
		if err != nil {
			fatal(err)
		}
		printFolders(folders)
	},
}

func init() {
	rootCmd.AddCommand(folderCmd)
	folderCmd.AddCommand(folderCreateCmd, folderListCmd, folderShowCmd, folderUpdateCmd, folderDeleteCmd, folderReorderCmd)

	folderCreateCmd.Flags().String("color", "", "Folder color as #RRGGBB, e.g. "+paletteHelp())
	folderUpdateCmd.Flags().String("name", "", "New folder name")
	folderUpdateCmd.Flags().String("color", "", "New folder color as #RRGGBB, e.g. "+paletteHelp())
}
