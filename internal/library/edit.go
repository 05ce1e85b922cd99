package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// EditDocument applies edits to the primary page of an IMAGE document and
// writes the result back. PNG and JPEG pages are rewritten in place; other
// formats are replaced by a JPEG next to them.
func (l *Library) EditDocument(ctx context.Context, id int64, edits imaging.Edits) (*types.ScanDocument, error) {
	if edits.Mode == "" {
		edits.Mode = imaging.ModeColor
	}
	if err := edits.Validate(); err != nil {
		return nil, err
	}
	if !edits.HasPendingChanges() {
		return nil, types.Invalidf("no pending changes")
	}

	doc, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc.Type != types.TypeImage {
		return nil, types.Invalidf("only IMAGE documents can be edited (document %d is %s)", id, doc.Type)
	}

	src, _, err := imaging.Decode(doc.Path)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	edited := imaging.Apply(src, edits)

	target := doc.Path
	if !writableInPlace(target) {
		target = strings.TrimSuffix(target, filepath.Ext(target)) + ".jpg"
	}
	if err := imaging.SaveToPath(edited, target, l.cfg.Edit.JPEGQuality); err != nil {
		return nil, fmt.Errorf("failed to save edited page: %w", err)
	}

	data := events.EditData{
		Rotation:   edits.Rotation,
		Crop:       edits.Crop.String(),
		Brightness: edits.Brightness,
		Contrast:   edits.Contrast,
		Mode:       string(edits.Mode),
	}
	if err := l.store.UpdateDocumentFile(ctx, id, target, doc.PageCount, data, l.actor); err != nil {
		if target != doc.Path {
			_ = os.Remove(target)
		}
		return nil, err
	}
	if target != doc.Path {
		if err := os.Remove(doc.Path); err != nil {
			l.logger.Warn("failed to remove original page", zap.String("path", doc.Path), zap.Error(err))
		}
	}

	l.logger.Info("edited document", zap.Int64("document_id", id), zap.String("path", target))
	return l.Get(ctx, id)
}

func writableInPlace(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}
