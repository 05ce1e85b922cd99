package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

const listTimeLayout = "2006-01-02 15:04"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// scanTypeNames lists the document types as typed on the command line.
func scanTypeNames() string {
	names := make([]string, 0, len(types.AllScanTypes))
	for _, t := range types.AllScanTypes {
		names = append(names, strings.ToLower(string(t)))
	}
	return strings.Join(names, ", ")
}

// paletteHelp lists the suggested folder colors.
func paletteHelp() string {
	return strings.Join(types.FolderPalette, " ")
}

// typeColor gives each document type a fixed color in listings.
func typeColor(t types.ScanType) *color.Color {
	switch t {
	case types.TypeImage:
		return color.New(color.FgCyan)
	case types.TypePDF:
		return color.New(color.FgMagenta)
	case types.TypeText:
		return color.New(color.FgYellow)
	case types.TypeCSV:
		return color.New(color.FgGreen)
	default:
		return color.New(color.FgWhite)
	}
}

// formatDocumentLine renders one document as a single list line.
func formatDocumentLine(doc *types.ScanDocument) string {
	folder := ""
	if doc.FolderID != nil {
		folder = gray(fmt.Sprintf(" [folder %d]", *doc.FolderID))
	}
	kind := ""
	if doc.Kind != types.KindGeneric && doc.Kind != "" {
		kind = gray(" " + strings.ToLower(string(doc.Kind)))
	}
	return fmt.Sprintf("%s  %-5s  %s  %s%s%s",
		bold(fmt.Sprintf("%4d", doc.ID)),
		typeColor(doc.Type).Sprint(doc.Type),
		doc.CreatedAt.Format(listTimeLayout),
		truncateString(doc.Title, 48),
		pagesSuffix(doc.PageCount),
		folder+kind,
	)
}

func pagesSuffix(n int) string {
	if n <= 1 {
		return ""
	}
	return gray(fmt.Sprintf(" (%d pages)", n))
}

func printDocuments(docs []*types.ScanDocument) {
	if len(docs) == 0 {
		fmt.Printf("%s\n", gray("No documents"))
		return
	}
	for _, d := range docs {
		fmt.Println(formatDocumentLine(d))
	}
}

func printDocument(doc *types.ScanDocument) {
	fmt.Printf("%s %s\n\n", bold(fmt.Sprintf("#%d", doc.ID)), bold(doc.Title))
	fmt.Printf("  Type:    %s\n", typeColor(doc.Type).Sprint(doc.Type))
	fmt.Printf("  Kind:    %s\n", doc.Kind)
	fmt.Printf("  Pages:   %d\n", doc.PageCount)
	fmt.Printf("  Created: %s\n", doc.CreatedAt.Format(listTimeLayout))
	if doc.FolderID != nil {
		fmt.Printf("  Folder:  %d\n", *doc.FolderID)
	} else {
		fmt.Printf("  Folder:  %s\n", gray("none"))
	}
	fmt.Printf("  Path:    %s\n", cyan(doc.Path))
}

// swatch prints a colored block for a #RRGGBB folder color.
func swatch(hex string) string {
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return "  "
	}
	return color.RGB(r, g, b).Sprint("■")
}

func formatFolderLine(f *types.Folder) string {
	return fmt.Sprintf("%s  %s %s  %s  %s",
		bold(fmt.Sprintf("%4d", f.ID)),
		swatch(f.ColorHex),
		truncateString(f.Name, 40),
		gray(f.ColorHex),
		gray(fmt.Sprintf("%d documents", f.DocumentCount)),
	)
}

func printFolders(folders []*types.Folder) {
	if len(folders) == 0 {
		fmt.Printf("%s\n", gray("No folders"))
		return
	}
	for _, f := range folders {
		fmt.Println(formatFolderLine(f))
	}
}

// truncateString shortens s to maxLen runes, ending in "..." when cut.
func truncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string([]rune(s)[:maxLen-3]) + "..."
}
