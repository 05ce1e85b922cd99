package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Resaura/NeonScan-v2/internal/imaging"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rotate, crop or color-adjust a document's first page",
	Long: `Apply edits to the first page of an IMAGE document and save it in place.

Crop is given as normalized left,top,width,height (each 0..1), or "default"
for the suggested 10% margin frame.

Examples:
  neonscan edit 7 --rotate 90
  neonscan edit 7 --crop 0.1,0.05,0.8,0.9 --mode grayscale
  neonscan edit 7 --brightness 0.2 --contrast 1.3
  neonscan edit 7 --mode high_contrast`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := parseID(args[0])
		if err != nil {
			fatal(err)
		}
		edits, err := editsFromFlags(cmd)
		if err != nil {
			fatal(err)
		}
		doc, err := lib.EditDocument(context.Background(), id, edits)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s Saved edits to %s %s\n", green("✓"), bold(fmt.Sprintf("#%d", doc.ID)), gray(edits.Crop.String()))
	},
}

func editsFromFlags(cmd *cobra.Command) (imaging.Edits, error) {
	rotate, _ := cmd.Flags().GetFloat64("rotate")
	cropRaw, _ := cmd.Flags().GetString("crop")
	brightness, _ := cmd.Flags().GetFloat64("brightness")
	contrast, _ := cmd.Flags().GetFloat64("contrast")
	modeRaw, _ := cmd.Flags().GetString("mode")

	edits := imaging.NoEdits()
	edits.Rotation = rotate
	edits.Brightness = brightness
	edits.Contrast = contrast

	crop, err := imaging.ParseCropRect(cropRaw)
	if err != nil {
		return edits, err
	}
	edits.Crop = crop

	mode, err := imaging.ParseColorMode(modeRaw)
	if err != nil {
		return edits, err
	}
	edits.Mode = mode
	return edits, nil
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().Float64("rotate", 0, "Clockwise rotation in degrees")
	editCmd.Flags().String("crop", "full", "Crop frame: left,top,width,height, full or default")
	editCmd.Flags().Float64("brightness", 0, "Brightness offset (-0.5..0.5)")
	editCmd.Flags().Float64("contrast", 1, "Contrast factor (0.5..1.5)")
	editCmd.Flags().String("mode", "color", "Color mode: color, grayscale, high_contrast")
}
