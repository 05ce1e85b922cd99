package library

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

const titleTimeLayout = "02 Jan 2006 15:04"

// CreateScanInput describes captured pages to store as one document.
type CreateScanInput struct {
	SourcePaths []string
	// Title defaults to "Scan of <date>"
	Title string
	// Type is IMAGE or PDF; PDF stores the pages and converts them.
	Type types.ScanType
	// IsBatch keeps every page; otherwise only the first is stored
	IsBatch bool
	Kind    types.DocumentKind
}

// CreateScan stores the captured pages and inserts the document.
func (l *Library) CreateScan(ctx context.Context, in CreateScanInput) (*types.ScanDocument, error) {
	if len(in.SourcePaths) == 0 {
		return nil, types.Invalidf("at least one page is required")
	}
	if in.Type == "" {
		in.Type = types.TypeImage
	}
	if in.Type != types.TypeImage && in.Type != types.TypePDF {
		return nil, types.Invalidf("scans are stored as IMAGE or PDF (got %s)", in.Type)
	}
	if in.Kind == "" {
		in.Kind = types.KindGeneric
	}
	if !in.Kind.IsValid() {
		return nil, types.Invalidf("invalid document kind: %s", in.Kind)
	}

	pages := in.SourcePaths
	if !in.IsBatch {
		pages = pages[:1]
	}
	if limit := l.cfg.Scan.MaxPages; len(pages) > limit {
		return nil, types.Invalidf("a scan holds at most %d pages (got %d)", limit, len(pages))
	}

	for i, page := range pages {
		if !imaging.IsImageFile(page) {
			return nil, types.Invalidf("page %d (%s) is not a readable image", i+1, page)
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Scan of " + l.now().Format(titleTimeLayout)
	}

	stored, err := l.files.SaveImages(ctx, pages)
	if err != nil {
		return nil, fmt.Errorf("failed to store pages: %w", err)
	}

	doc := &types.ScanDocument{
		Title:     title,
		Type:      types.TypeImage,
		Path:      stored.PrimaryPath,
		PageCount: stored.PageCount,
		CreatedAt: l.now(),
		Kind:      in.Kind,
	}
	if _, err := l.store.InsertDocument(ctx, doc, l.actor); err != nil {
		if rmErr := l.files.DeleteDocument(doc.Path); rmErr != nil {
			l.logger.Warn("failed to remove pages of unsaved scan", zap.Error(rmErr))
		}
		return nil, fmt.Errorf("failed to save scan: %w", err)
	}
	l.logger.Info("created scan",
		zap.Int64("document_id", doc.ID), zap.Int("pages", doc.PageCount), zap.String("kind", string(doc.Kind)))

	if in.Type == types.TypePDF {
		pdf, err := l.conv.Convert(ctx, doc.ID, types.TypePDF, true, l.actor)
		if err != nil {
			l.discardScan(context.WithoutCancel(ctx), doc)
			return nil, err
		}
		return pdf, nil
	}
	return doc, nil
}

// discardScan removes a scan whose capture could not be completed.
func (l *Library) discardScan(ctx context.Context, doc *types.ScanDocument) {
	log := l.logger.With(zap.Int64("document_id", doc.ID))
	if err := l.store.DeleteDocument(ctx, doc.ID, l.actor); err != nil {
		log.Warn("failed to delete unfinished scan", zap.Error(err))
		return
	}
	if err := l.files.DeleteDocument(doc.Path); err != nil {
		log.Warn("failed to remove pages of unfinished scan", zap.Error(err))
	}
}

// CreateIDCard stores the front and back of an identity card.
func (l *Library) CreateIDCard(ctx context.Context, front, back string) (*types.ScanDocument, error) {
	if front == "" || back == "" {
		return nil, types.Invalidf("both sides of the card are required")
	}
	return l.CreateScan(ctx, CreateScanInput{
		SourcePaths: []string{front, back},
		Title:       "ID card of " + l.now().Format(titleTimeLayout),
		Type:        types.TypeImage,
		IsBatch:     true,
		Kind:        types.KindIDCard,
	})
}

// CreatePassport stores the scanned passport pages.
func (l *Library) CreatePassport(ctx context.Context, pages []string) (*types.ScanDocument, error) {
	if len(pages) == 0 {
		return nil, types.Invalidf("at least one passport page is required")
	}
	return l.CreateScan(ctx, CreateScanInput{
		SourcePaths: pages,
		Title:       "Passport of " + l.now().Format(titleTimeLayout),
		Type:        types.TypeImage,
		IsBatch:     true,
		Kind:        types.KindPassport,
	})
}
