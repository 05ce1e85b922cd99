// Package files owns the on-disk layout of stored scans. Every stored
// document gets its own directory under the scans root.
package files

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/logging"
)

// Store writes and removes scan files under a root directory.
type Store struct {
	root   string
	logger *zap.Logger
	now    func() time.Time
}

// Stored describes files written for one document.
type Stored struct {
	Dir         string
	PrimaryPath string
	PageCount   int
}

// New returns a Store rooted at root. The directory is created on first write.
func New(root string, logger *zap.Logger) *Store {
	return &Store{root: root, logger: logging.OrNop(logger), now: time.Now}
}

// Root returns the scans root directory.
func (s *Store) Root() string {
	return s.root
}

// newDir creates a fresh scan directory named <unix-millis>-<8 hex>.
func (s *Store) newDir() (string, error) {
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	dir := filepath.Join(s.root, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create scan directory: %w", err)
	}
	return dir, nil
}

// SaveImages copies source images into a new scan directory as
// page_1.jpg ... page_N.jpg. PNG and WebP sources keep their extension.
func (s *Store) SaveImages(ctx context.Context, sources []string) (*Stored, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("no pages to save")
	}

	dir, err := s.newDir()
	if err != nil {
		return nil, err
	}

	stored := &Stored{Dir: dir}
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			_ = os.RemoveAll(dir)
			return nil, err
		}
		dst := filepath.Join(dir, fmt.Sprintf("page_%d.%s", i+1, pageExtension(src)))
		if err := copyFile(src, dst); err != nil {
			_ = os.RemoveAll(dir)
			return nil, fmt.Errorf("failed to store page %d: %w", i+1, err)
		}
		if i == 0 {
			stored.PrimaryPath = dst
		}
		stored.PageCount++
	}

	s.logger.Debug("stored scan pages",
		zap.String("dir", dir), zap.Int("pages", stored.PageCount))
	return stored, nil
}

func pageExtension(src string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(src), ".")); ext {
	case "png", "webp":
		return ext
	}
	return "jpg"
}

// SaveImage encodes img into a new scan directory as document.<ext>:
// PNG when ext is png, JPEG at quality otherwise.
func (s *Store) SaveImage(img image.Image, ext string, quality int) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext != "png" {
		ext = "jpg"
	}
	dir, err := s.newDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "document."+ext)

	f, err := os.Create(path)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := imaging.Encode(bw, img, ext, quality); err != nil {
		_ = f.Close()
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to encode image: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to close image file: %w", err)
	}
	return path, nil
}

// SaveBytes writes data into a new scan directory as document.<ext>.
func (s *Store) SaveBytes(data []byte, ext string) (string, error) {
	path, err := s.CreateEmptyFile(ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		_ = os.RemoveAll(filepath.Dir(path))
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return path, nil
}

// CreateEmptyFile creates document.<ext> in a new scan directory and returns
// its path, for writers that produce the file themselves.
func (s *Store) CreateEmptyFile(ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return "", fmt.Errorf("extension is required")
	}
	dir, err := s.newDir()
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "document."+ext)
	f, err := os.Create(path)
	if err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return path, nil
}

// DeleteDocument removes the files of a stored document. When path sits in
// its own directory under the scans root the whole directory goes; otherwise
// only the file is removed. Missing files are not an error.
func (s *Store) DeleteDocument(path string) error {
	if path == "" {
		return nil
	}
	if dir, ok := s.scanDir(path); ok {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove scan directory: %w", err)
		}
		s.logger.Debug("removed scan directory", zap.String("dir", dir))
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	return nil
}

// scanDir returns the scan directory holding path when it is a direct child
// of the scans root.
func (s *Store) scanDir(path string) (string, bool) {
	root, err := filepath.Abs(s.root)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(abs)
	if filepath.Dir(dir) != root || dir == root {
		return "", false
	}
	return dir, true
}

var pageName = regexp.MustCompile(`^page_(\d+)\.[A-Za-z0-9]+$`)

// PagePaths lists the pages stored alongside primary in page order. A path
// that is not a page_N file is its own single page.
func PagePaths(primary string) ([]string, error) {
	if !pageName.MatchString(filepath.Base(primary)) {
		if _, err := os.Stat(primary); err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", primary, err)
		}
		return []string{primary}, nil
	}

	dir := filepath.Dir(primary)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	type page struct {
		n    int
		path string
	}
	var pages []page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageName.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		pages = append(pages, page{n: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].n < pages[j].n })

	out := make([]string, 0, len(pages))
	for _, p := range pages {
		out = append(out, p.path)
	}
	return out, nil
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{N} ._-]+`)

// SafeName turns a document title into a file name stem.
func SafeName(title string) string {
	name := strings.TrimSpace(unsafeName.ReplaceAllString(title, "_"))
	name = strings.Trim(name, ".")
	if name == "" {
		return "document"
	}
	if runes := []rune(name); len(runes) > 120 {
		name = string(runes[:120])
	}
	return name
}

// Export copies the files at paths into destDir named after displayName.
// A single file becomes <name>.<ext>; several become <name>_page_N.<ext>.
// Existing files are never overwritten. Returns the written paths.
func Export(ctx context.Context, paths []string, destDir, displayName string) ([]string, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	stem := SafeName(displayName)
	var written []string
	for i, src := range paths {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		ext := filepath.Ext(src)
		name := stem + ext
		if len(paths) > 1 {
			name = fmt.Sprintf("%s_page_%d%s", stem, i+1, ext)
		}
		dst := uniquePath(filepath.Join(destDir, name))
		if err := copyFile(src, dst); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", src, err)
		}
		written = append(written, dst)
	}
	return written, nil
}

// uniquePath appends " (2)", " (3)", ... until path does not exist.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return err
	}
	return out.Close()
}
