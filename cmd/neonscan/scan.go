package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/library"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan <image>...",
	Short: "Store captured pages as a new document",
	Long: `Store one or more captured page images as a document.

Without --batch only the first image is kept. The title defaults to
"Scan of <date>".

Examples:
  neonscan scan receipt.jpg
  neonscan scan p1.jpg p2.jpg p3.jpg --batch --title "Lease"
  neonscan scan p1.jpg p2.jpg --batch --pdf`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		title, _ := cmd.Flags().GetString("title")
		batch, _ := cmd.Flags().GetBool("batch")
		asPDF, _ := cmd.Flags().GetBool("pdf")
		kindRaw, _ := cmd.Flags().GetString("kind")

		kind, err := types.ParseDocumentKind(kindRaw)
		if err != nil {
			fatal(err)
		}
		in := library.CreateScanInput{
			SourcePaths: args,
			Title:       title,
			Type:        types.TypeImage,
			IsBatch:     batch,
			Kind:        kind,
		}
		if asPDF {
			in.Type = types.TypePDF
		}

		doc, err := lib.CreateScan(context.Background(), in)
		if err != nil {
			fatal(err)
		}
		printCreated(doc)
	},
}

var idcardCmd = &cobra.Command{
	Use:   "idcard <front> <back>",
	Short: "Store both sides of an identity card",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := lib.CreateIDCard(context.Background(), args[0], args[1])
		if err != nil {
			fatal(err)
		}
		printCreated(doc)
	},
}

var passportCmd = &cobra.Command{
	Use:   "passport <page>...",
	Short: "Store scanned passport pages",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		doc, err := lib.CreatePassport(context.Background(), args)
		if err != nil {
			fatal(err)
		}
		printCreated(doc)
	},
}

func printCreated(doc *types.ScanDocument) {
	fmt.Printf("%s Created document %s: %s%s\n",
		green("✓"), bold(fmt.Sprintf("#%d", doc.ID)), doc.Title, pagesSuffix(doc.PageCount))
}

func init() {
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(idcardCmd)
	rootCmd.AddCommand(passportCmd)

	scanCmd.Flags().StringP("title", "t", "", "Document title")
	scanCmd.Flags().BoolP("batch", "b", false, "Keep every page instead of only the first")
	scanCmd.Flags().Bool("pdf", false, "Store the pages as a PDF")
	scanCmd.Flags().String("kind", "generic", "Document kind: generic, id_card, passport")
}
