package imaging

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// A4 page size in PDF points, used for rendered text pages.
const (
	A4Width  = 595
	A4Height = 842
)

// TextLayout controls how text is rendered onto bitmaps.
type TextLayout struct {
	Width  int
	Height int // 0 grows the single page to fit the text
	Margin int
	// Scale enlarges the fixed 7x13 face; 2 gives roughly 14pt lines.
	Scale int
}

// PageLayout is an A4 page with 40px margins.
func PageLayout() TextLayout {
	return TextLayout{Width: A4Width, Height: A4Height, Margin: 40, Scale: 2}
}

var textFace = basicfont.Face7x13

// RenderText renders text as a single image of the given width, tall enough
// to hold every line.
func RenderText(text string, width int) *image.RGBA {
	layout := TextLayout{Width: width, Margin: 40, Scale: 2}
	return RenderPages(text, layout)[0]
}

// RenderPages renders text onto as many pages as the layout needs. At least
// one page is always returned.
func RenderPages(text string, layout TextLayout) []*image.RGBA {
	if layout.Scale < 1 {
		layout.Scale = 1
	}
	scale := layout.Scale
	margin := layout.Margin / scale
	width := layout.Width / scale
	if width <= 2*margin {
		margin = 0
	}
	if width < 1 {
		width = 1
	}

	lineHeight := textFace.Metrics().Height.Ceil()
	lines := wrapText(text, width-2*margin)

	var pages [][]string
	if layout.Height <= 0 {
		pages = [][]string{lines}
	} else {
		perPage := (layout.Height/scale - 2*margin) / lineHeight
		if perPage < 1 {
			perPage = 1
		}
		for len(lines) > perPage {
			pages = append(pages, lines[:perPage])
			lines = lines[perPage:]
		}
		pages = append(pages, lines)
	}

	out := make([]*image.RGBA, 0, len(pages))
	for _, pageLines := range pages {
		height := layout.Height / scale
		if layout.Height <= 0 {
			height = 2*margin + len(pageLines)*lineHeight
			if height < lineHeight {
				height = lineHeight
			}
		}
		small := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(small, small.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

		d := &font.Drawer{Dst: small, Src: image.NewUniform(color.Black), Face: textFace}
		ascent := textFace.Metrics().Ascent.Ceil()
		for i, line := range pageLines {
			d.Dot = fixed.P(margin, margin+ascent+i*lineHeight)
			d.DrawString(line)
		}

		if scale == 1 {
			out = append(out, small)
			continue
		}
		big := image.NewRGBA(image.Rect(0, 0, width*scale, height*scale))
		draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)
		out = append(out, big)
	}
	return out
}

// wrapText splits text into lines no wider than maxWidth pixels in textFace.
// Words longer than a line are broken.
func wrapText(text string, maxWidth int) []string {
	if maxWidth < 1 {
		maxWidth = 1
	}
	fits := func(s string) bool {
		return font.MeasureString(textFace, s).Ceil() <= maxWidth
	}

	var lines []string
	text = strings.ReplaceAll(text, "\r\n", "\n")
	for _, para := range strings.Split(text, "\n") {
		para = strings.ReplaceAll(para, "\t", "    ")
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range words {
			for !fits(word) {
				head, tail := splitToFit(word, fits)
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, head)
				word = tail
			}
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if fits(candidate) {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// splitToFit returns the longest prefix of word that fits, and the rest.
// The prefix always holds at least one rune.
func splitToFit(word string, fits func(string) bool) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && fits(string(runes[:n+1])) {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
