package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/storage"
)

var initCmd = &cobra.Command{
	Use:   "init [library-name]",
	Short: "Initialize a new scan library in the current directory",
	Long: `Initialize a new scan library by creating a .neonscan/ directory.

This creates:
  - .neonscan/<library-name>.db (SQLite database)
  - .neonscan/scans/ (stored pages)
  - .neonscan/config.yaml (default configuration)

If no name is provided, the current directory name is used.

Example:
  cd ~/papers
  neonscan init              # Creates .neonscan/papers.db
  neonscan init household    # Creates .neonscan/household.db`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		cwd, err := os.Getwd()
		if err != nil {
			fatal(fmt.Errorf("failed to get current directory: %w", err))
		}

		path, err := storage.InitProject(cwd, name)
		if err != nil {
			fatal(err)
		}

		// Opening the database creates the schema
		db, err := storage.NewStorage(context.Background(), &storage.Config{Path: path})
		if err != nil {
			fatal(fmt.Errorf("failed to initialize database: %w", err))
		}
		_ = db.Close()

		resolved, err := storage.ResolvePaths(path)
		if err != nil {
			fatal(err)
		}

		fmt.Printf("\n%s Initialized scan library\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(resolved.DB))
		fmt.Printf("  Scans:    %s\n", cyan(resolved.ScansDir))
		fmt.Printf("  Config:   %s\n", cyan(resolved.Config))
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("neonscan scan page1.jpg page2.jpg --batch"))
		fmt.Printf("  %s\n", gray("neonscan recent"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
