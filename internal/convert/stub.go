package convert

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

// toText writes a plain-text stub naming the source. PDF sources with a text
// layer get their text appended after a blank line.
func (c *Converter) toText(src *types.ScanDocument) (*output, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Converted from: %s\n", src.Title)
	fmt.Fprintf(&sb, "Path: %s\n", src.Path)
	fmt.Fprintf(&sb, "Date: %d\n", c.now().UnixMilli())

	if isPDF(src) {
		text, err := pdfText(src.Path)
		if err != nil {
			c.logger.Debug("no text extracted from pdf")
		} else if text != "" {
			sb.WriteString("\n")
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}

	path, err := c.files.SaveBytes([]byte(sb.String()), types.TypeText.Extension())
	if err != nil {
		return nil, err
	}
	return &output{path: path, pageCount: 1}, nil
}

// toCSV writes a one-row CSV stub describing the source.
func (c *Converter) toCSV(src *types.ScanDocument) (*output, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := [][]string{
		{"Document", "Source", "Date"},
		{src.Title, src.Path, strconv.FormatInt(c.now().UnixMilli(), 10)},
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	path, err := c.files.SaveBytes(buf.Bytes(), types.TypeCSV.Extension())
	if err != nil {
		return nil, err
	}
	return &output{path: path, pageCount: 1}, nil
}
