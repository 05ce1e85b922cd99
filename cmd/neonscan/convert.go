package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/convert"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [id]...",
	Short: "Convert documents to another type",
	Long: `Convert documents to IMAGE, PDF, TEXT or CSV.

Each conversion creates a new document with the same title, kind and
folder. With --replace the source document and its files are removed.
--to also accepts file extensions (docx for TEXT, xlsx for CSV).

Examples:
  neonscan convert 4 --to pdf
  neonscan convert 4 5 6 --to txt --replace
  neonscan convert --all --filter image --to pdf`,
	Run: func(cmd *cobra.Command, args []string) {
		toRaw, _ := cmd.Flags().GetString("to")
		all, _ := cmd.Flags().GetBool("all")
		filterRaw, _ := cmd.Flags().GetString("filter")
		replace, _ := cmd.Flags().GetBool("replace")

		target, err := types.ParseScanTypeStrict(toRaw)
		if err != nil {
			fatal(err)
		}
		ctx := context.Background()

		var results []convert.BatchResult
		switch {
		case all && len(args) > 0:
			fatal(fmt.Errorf("give document ids or --all, not both"))
		case all:
			var filter *types.ScanType
			if filterRaw != "" {
				t, err := types.ParseScanTypeStrict(filterRaw)
				if err != nil {
					fatal(err)
				}
				filter = &t
			}
			results, err = lib.ConvertAll(ctx, target, filter, replace)
			if err != nil {
				fatal(err)
			}
		case len(args) == 0:
			fatal(fmt.Errorf("no documents given (use ids or --all)"))
		default:
			ids, err := parseIDs(args)
			if err != nil {
				fatal(err)
			}
			results = lib.ConvertBatch(ctx, ids, target, replace)
		}

		if len(results) == 0 {
			fmt.Printf("%s\n", gray("Nothing to convert"))
			return
		}
		for _, r := range results {
			if r.Err != nil {
				fmt.Printf("%s #%d: %v\n", yellow("✗"), r.SourceID, r.Err)
				continue
			}
			fmt.Printf("%s #%d → %s\n", green("✓"), r.SourceID, formatDocumentLine(r.Document))
		}
		if failed := convert.Failed(results); failed > 0 {
			fmt.Fprintf(os.Stderr, "Error: %d of %d conversions failed\n", failed, len(results))
			if store != nil {
				_ = store.Close()
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().String("to", "", "Target type: "+scanTypeNames()+" (txt, docx and xlsx also accepted)")
	convertCmd.Flags().Bool("all", false, "Convert every document not already of the target type")
	convertCmd.Flags().String("filter", "", "With --all, only convert documents of this type ("+scanTypeNames()+")")
	convertCmd.Flags().Bool("replace", false, "Delete the source documents after converting")
	_ = convertCmd.MarkFlagRequired("to")
}
