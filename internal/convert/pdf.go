package convert

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/Resaura/NeonScan-v2/internal/files"
	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

var pdfcpuOnce sync.Once

// pdfConfig returns a relaxed pdfcpu configuration. pdfcpu's on-disk config
// directory is disabled before first use.
func pdfConfig() *model.Configuration {
	pdfcpuOnce.Do(api.DisableConfigDir)
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// pdfcpu imports these directly; anything else is re-encoded as JPEG.
var importableExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".tif": true, ".tiff": true, ".webp": true,
}

func (c *Converter) toPDF(ctx context.Context, src *types.ScanDocument) (*output, error) {
	var data []byte
	err := withTempDir(func(tmp string) error {
		pages, err := c.pdfSources(ctx, src, tmp)
		if err != nil {
			return err
		}
		out := filepath.Join(tmp, "out.pdf")
		if err := api.ImportImagesFile(pages, out, nil, pdfConfig()); err != nil {
			return fmt.Errorf("failed to build pdf: %w", err)
		}
		data, err = os.ReadFile(out)
		if err != nil {
			return fmt.Errorf("failed to read pdf: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	path, err := c.files.SaveBytes(data, types.TypePDF.Extension())
	if err != nil {
		return nil, err
	}
	count, err := api.PageCountFile(path)
	if err != nil {
		_ = c.files.DeleteDocument(path)
		return nil, fmt.Errorf("failed to count pdf pages: %w", err)
	}
	return &output{path: path, pageCount: count}, nil
}

// pdfSources returns image files, one per PDF page, for src. Image documents
// contribute all stored pages; anything else is rendered as text.
func (c *Converter) pdfSources(ctx context.Context, src *types.ScanDocument, tmp string) ([]string, error) {
	if src.Type == types.TypeImage || imaging.IsImageFile(src.Path) {
		pages, err := files.PagePaths(src.Path)
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(pages))
		for i, p := range pages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if importableExt[strings.ToLower(filepath.Ext(p))] {
				out = append(out, p)
				continue
			}
			img, _, err := imaging.Decode(p)
			if err != nil {
				return nil, err
			}
			re := filepath.Join(tmp, fmt.Sprintf("page_%d.jpg", i+1))
			if err := imaging.SaveToPath(img, re, c.opts.JPEGQuality); err != nil {
				return nil, err
			}
			out = append(out, re)
		}
		return out, nil
	}

	text, err := sourceText(src)
	if err != nil {
		return nil, err
	}
	rendered := imaging.RenderPages(text, imaging.PageLayout())
	out := make([]string, 0, len(rendered))
	for i, img := range rendered {
		p := filepath.Join(tmp, fmt.Sprintf("text_%d.jpg", i+1))
		if err := imaging.SaveToPath(img, p, c.opts.JPEGQuality); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (c *Converter) toImage(ctx context.Context, src *types.ScanDocument) (*output, error) {
	img, err := c.sourceImage(ctx, src)
	if err != nil {
		return nil, err
	}
	path, err := c.files.SaveImage(img, types.TypeImage.Extension(), c.opts.JPEGQuality)
	if err != nil {
		return nil, err
	}
	return &output{path: path, pageCount: 1}, nil
}

// sourceImage picks the bitmap for an image conversion: the file itself when
// it decodes, the first embedded image of a PDF's first page, or the
// document's text rendered onto a page.
func (c *Converter) sourceImage(ctx context.Context, src *types.ScanDocument) (image.Image, error) {
	if imaging.IsImageFile(src.Path) {
		img, _, err := imaging.Decode(src.Path)
		if err == nil {
			return img, nil
		}
		c.logger.Debug("source does not decode as an image")
	}

	if isPDF(src) {
		img, err := firstPDFImage(src.Path)
		if err == nil {
			return img, nil
		}
		c.logger.Debug("no embedded image in pdf")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text, err := sourceText(src)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		text = "Converted document"
	}
	return imaging.RenderText(text, imaging.A4Width), nil
}

// firstPDFImage extracts the images of page 1 and decodes the first one.
func firstPDFImage(path string) (image.Image, error) {
	var img image.Image
	err := withTempDir(func(tmp string) error {
		if err := api.ExtractImagesFile(path, tmp, []string{"1"}, pdfConfig()); err != nil {
			return fmt.Errorf("failed to extract pdf images: %w", err)
		}
		entries, err := os.ReadDir(tmp)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		sort.Strings(names)
		for _, name := range names {
			decoded, _, err := imaging.Decode(filepath.Join(tmp, name))
			if err == nil {
				img = decoded
				return nil
			}
		}
		return errNoImage
	})
	return img, err
}

// sourceText returns the text of src: the text layer of a PDF, or the raw
// contents of any other non-image file.
func sourceText(src *types.ScanDocument) (string, error) {
	if isPDF(src) {
		return pdfText(src.Path)
	}
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}

// pdfText extracts the plain text of every page. Pages without a text layer
// contribute nothing.
func pdfText(path string) (text string, err error) {
	// the reader panics on some malformed files
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to read pdf text: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pageText = strings.TrimSpace(pageText)
		if pageText == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}
