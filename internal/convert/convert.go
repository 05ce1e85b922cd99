// Package convert produces new scan documents of a different type from
// existing ones: image pages to PDF, PDF or text to an image, and the
// plain-text and CSV stubs.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/files"
	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/logging"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// ErrSameType is returned when a document is converted to its own type.
var ErrSameType = fmt.Errorf("%w: document is already of the target type", types.ErrInvalid)

// DocumentStore is the storage the converter reads from and writes to.
type DocumentStore interface {
	GetDocument(ctx context.Context, id int64) (*types.ScanDocument, error)
	InsertConvertedDocument(ctx context.Context, doc *types.ScanDocument, data events.ConversionData, actor string) (int64, error)
	DeleteDocument(ctx context.Context, id int64, actor string) error
}

// Options tune the converter.
type Options struct {
	// JPEGQuality for converted images
	JPEGQuality int
	// Concurrency bounds ConvertBatch
	Concurrency int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{JPEGQuality: imaging.DefaultJPEGQuality, Concurrency: 4}
}

// Converter turns documents into documents of another type.
type Converter struct {
	store  DocumentStore
	files  *files.Store
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

// New creates a converter writing new files through fs. Out of range
// options fall back to DefaultOptions.
func New(store DocumentStore, fs *files.Store, logger *zap.Logger, opts Options) *Converter {
	defaults := DefaultOptions()
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = defaults.JPEGQuality
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = defaults.Concurrency
	}
	return &Converter{
		store:  store,
		files:  fs,
		logger: logging.OrNop(logger),
		opts:   opts,
		now:    time.Now,
	}
}

// Eligible returns the documents that can be converted to target: those not
// already of that type and not excluded, optionally restricted to one source
// type. Order is preserved.
func Eligible(docs []*types.ScanDocument, target types.ScanType, filter *types.ScanType, excluded map[int64]bool) []*types.ScanDocument {
	out := make([]*types.ScanDocument, 0, len(docs))
	for _, d := range docs {
		if d.Type == target || excluded[d.ID] {
			continue
		}
		if filter != nil && d.Type != *filter {
			continue
		}
		out = append(out, d)
	}
	return out
}

// output is a file produced for a new document.
type output struct {
	path      string
	pageCount int
}

// Convert creates a new document of type target from document id. The new
// document keeps the source's title, kind and folder. With replace the source
// row and files are removed afterwards; failures there are logged only.
func (c *Converter) Convert(ctx context.Context, id int64, target types.ScanType, replace bool, actor string) (*types.ScanDocument, error) {
	if !target.IsValid() {
		return nil, types.Invalidf("invalid target type: %s", target)
	}

	src, err := c.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, types.NotFoundf("document %d", id)
	}
	if src.Type == target {
		return nil, fmt.Errorf("document %d: %w", id, ErrSameType)
	}

	log := c.logger.With(zap.Int64("document_id", id),
		zap.String("from", string(src.Type)), zap.String("to", string(target)))
	log.Debug("converting document")

	var out *output
	switch target {
	case types.TypePDF:
		out, err = c.toPDF(ctx, src)
	case types.TypeImage:
		out, err = c.toImage(ctx, src)
	case types.TypeText:
		out, err = c.toText(src)
	case types.TypeCSV:
		out, err = c.toCSV(src)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to convert document %d to %s: %w", id, target, err)
	}

	doc := &types.ScanDocument{
		Title:     src.Title,
		Type:      target,
		Path:      out.path,
		PageCount: out.pageCount,
		CreatedAt: c.now(),
		FolderID:  src.FolderID,
		Kind:      src.Kind,
	}
	data := events.ConversionData{
		SourceID:   src.ID,
		SourceType: string(src.Type),
		TargetType: string(target),
		Replaced:   replace,
	}
	if _, err := c.store.InsertConvertedDocument(ctx, doc, data, actor); err != nil {
		if rmErr := c.files.DeleteDocument(out.path); rmErr != nil {
			log.Warn("failed to remove orphaned conversion output", zap.String("path", out.path), zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to save converted document: %w", err)
	}

	if replace {
		if err := c.store.DeleteDocument(ctx, src.ID, actor); err != nil {
			log.Warn("failed to delete replaced document", zap.Error(err))
		} else if err := c.files.DeleteDocument(src.Path); err != nil {
			log.Warn("failed to delete replaced document files", zap.Error(err))
		}
	}

	log.Info("converted document", zap.Int64("new_document_id", doc.ID), zap.Bool("replaced", replace))
	return doc, nil
}

// BatchResult is the outcome of converting one document in a batch.
type BatchResult struct {
	SourceID int64
	Document *types.ScanDocument
	Err      error
}

// ConvertBatch converts every id, running up to Options.Concurrency
// conversions at once. Repeated ids are converted once. Results are in the
// order of first appearance; a failure of one document does not stop the
// others.
func (c *Converter) ConvertBatch(ctx context.Context, ids []int64, target types.ScanType, replace bool, actor string) []BatchResult {
	ids = uniqueIDs(ids)
	results := make([]BatchResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			results[i].SourceID = id
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			doc, err := c.Convert(gctx, id, target, replace, actor)
			results[i].Document = doc
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Failed counts the failed results.
func Failed(results []BatchResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// withTempDir runs fn with a scratch directory that is removed afterwards.
func withTempDir(fn func(dir string) error) error {
	dir, err := os.MkdirTemp("", "neonscan-convert-*")
	if err != nil {
		return fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()
	return fn(dir)
}

// isPDF reports whether doc's file is a PDF, by type or extension.
func isPDF(doc *types.ScanDocument) bool {
	return doc.Type == types.TypePDF || filepath.Ext(doc.Path) == ".pdf"
}

var errNoImage = errors.New("no embedded image")
