package imaging

import (
	"bufio"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	// Register additional decoders with image.Decode.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultJPEGQuality is used for newly stored bitmaps.
	DefaultJPEGQuality = 90
	// EditJPEGQuality is used when an edited page is written back.
	EditJPEGQuality = 95
)

// Decode reads the image at path. It returns the image and the registered
// format name ("jpeg", "png", "webp", ...).
func Decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, format, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, format, nil
}

// IsImageFile reports whether path can be decoded as an image.
func IsImageFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, _, err = image.DecodeConfig(bufio.NewReader(f))
	return err == nil
}

// Encode writes img as png or jpeg. Any format other than "png" is written
// as JPEG at quality (DefaultJPEGQuality when quality is out of range).
func Encode(w io.Writer, img image.Image, format string, quality int) error {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "png":
		return png.Encode(w, img)
	case "jpg", "jpeg", "":
		if quality < 1 || quality > 100 {
			quality = DefaultJPEGQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

// OutputFormat picks the encoder for path: png for .png, jpeg otherwise.
func OutputFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "png"
	}
	return "jpeg"
}

// SaveToPath writes img to path, replacing any existing file. The encoder is
// chosen by OutputFormat.
func SaveToPath(img image.Image, path string, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".edit-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	bw := bufio.NewWriter(tmp)
	if err := Encode(bw, img, OutputFormat(path), quality); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close image: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
