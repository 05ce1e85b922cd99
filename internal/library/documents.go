package library

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/convert"
	"github.com/Resaura/NeonScan-v2/internal/files"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// Recent returns the newest documents. limit < 1 uses recent_limit.
func (l *Library) Recent(ctx context.Context, limit int) ([]*types.ScanDocument, error) {
	if limit < 1 {
		limit = l.cfg.RecentLimit
	}
	return l.store.RecentDocuments(ctx, limit)
}

// All returns every document, newest first.
func (l *Library) All(ctx context.Context) ([]*types.ScanDocument, error) {
	return l.store.AllDocuments(ctx)
}

// ByFolder returns the documents in folderID, or the unfiled ones when nil.
func (l *Library) ByFolder(ctx context.Context, folderID *int64) ([]*types.ScanDocument, error) {
	if folderID != nil {
		if _, err := l.Folder(ctx, *folderID); err != nil {
			return nil, err
		}
	}
	return l.store.DocumentsByFolder(ctx, folderID)
}

// List returns documents from one folder (or all of them when scoped is
// false) with the type filter and sort order applied.
func (l *Library) List(ctx context.Context, scoped bool, folderID *int64, filter types.DocumentFilter) ([]*types.ScanDocument, error) {
	var (
		docs []*types.ScanDocument
		err  error
	)
	if scoped {
		docs, err = l.ByFolder(ctx, folderID)
	} else {
		docs, err = l.All(ctx)
	}
	if err != nil {
		return nil, err
	}
	return types.ApplyFilter(docs, filter), nil
}

// Get returns one document.
func (l *Library) Get(ctx context.Context, id int64) (*types.ScanDocument, error) {
	doc, err := l.store.GetDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, types.NotFoundf("document %d", id)
	}
	return doc, nil
}

// Rename sets a new title.
func (l *Library) Rename(ctx context.Context, id int64, title string) (*types.ScanDocument, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, types.Invalidf("title is required")
	}
	if len(title) > types.MaxTitleLength {
		return nil, types.Invalidf("title must be %d characters or less", types.MaxTitleLength)
	}
	if err := l.store.RenameDocument(ctx, id, title, l.actor); err != nil {
		return nil, err
	}
	return l.Get(ctx, id)
}

// Delete removes the document row and its files.
func (l *Library) Delete(ctx context.Context, id int64) error {
	doc, err := l.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := l.store.DeleteDocument(ctx, id, l.actor); err != nil {
		return err
	}
	if err := l.files.DeleteDocument(doc.Path); err != nil {
		l.logger.Warn("failed to remove document files",
			zap.Int64("document_id", id), zap.String("path", doc.Path), zap.Error(err))
	}
	return nil
}

// Assign files the documents under folderID; nil unfiles them.
func (l *Library) Assign(ctx context.Context, ids []int64, folderID *int64) error {
	if len(ids) == 0 {
		return types.Invalidf("no documents given")
	}
	return l.store.AssignFolder(ctx, ids, folderID, l.actor)
}

// RemoveFromFolder unfiles one document.
func (l *Library) RemoveFromFolder(ctx context.Context, id int64) error {
	return l.Assign(ctx, []int64{id}, nil)
}

// Export copies every page of the document into destDir, named after its
// title. Returns the written files.
func (l *Library) Export(ctx context.Context, id int64, destDir string) ([]string, error) {
	doc, err := l.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pages, err := files.PagePaths(doc.Path)
	if err != nil {
		return nil, err
	}
	return files.Export(ctx, pages, destDir, doc.Title)
}

// Convert produces a converted copy of one document.
func (l *Library) Convert(ctx context.Context, id int64, target types.ScanType, replace bool) (*types.ScanDocument, error) {
	return l.conv.Convert(ctx, id, target, replace, l.actor)
}

// ConvertBatch converts several documents concurrently.
func (l *Library) ConvertBatch(ctx context.Context, ids []int64, target types.ScanType, replace bool) []convert.BatchResult {
	return l.conv.ConvertBatch(ctx, ids, target, replace, l.actor)
}

// ConvertAll converts every eligible document in the library: those not
// already of target, optionally only those of type filter.
func (l *Library) ConvertAll(ctx context.Context, target types.ScanType, filter *types.ScanType, replace bool) ([]convert.BatchResult, error) {
	docs, err := l.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	eligible := convert.Eligible(docs, target, filter, nil)
	ids := make([]int64, 0, len(eligible))
	for _, d := range eligible {
		ids = append(ids, d.ID)
	}
	return l.ConvertBatch(ctx, ids, target, replace), nil
}
