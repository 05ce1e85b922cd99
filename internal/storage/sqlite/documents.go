package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

const documentColumns = `id, title, type, path, page_count, created_at, folder_id, kind`

// RecentDocuments returns the newest documents, at most limit of them.
func (s *SQLiteStorage) RecentDocuments(ctx context.Context, limit int) ([]*types.ScanDocument, error) {
	if limit < 1 {
		return nil, fmt.Errorf("limit must be at least 1 (got %d)", limit)
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM scan_documents
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// AllDocuments returns every document, newest first.
func (s *SQLiteStorage) AllDocuments(ctx context.Context) ([]*types.ScanDocument, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+documentColumns+`
		FROM scan_documents
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// DocumentsByFolder returns the documents of a folder, newest first.
// A nil folderID selects unfiled documents.
func (s *SQLiteStorage) DocumentsByFolder(ctx context.Context, folderID *int64) ([]*types.ScanDocument, error) {
	var rows *sql.Rows
	var err error
	if folderID == nil {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+documentColumns+`
			FROM scan_documents
			WHERE folder_id IS NULL
			ORDER BY created_at DESC, id DESC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+documentColumns+`
			FROM scan_documents
			WHERE folder_id = ?
			ORDER BY created_at DESC, id DESC
		`, *folderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query documents by folder: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// GetDocument retrieves a document by ID. It returns (nil, nil) when absent.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id int64) (*types.ScanDocument, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM scan_documents
		WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// InsertDocument stores doc, assigns its ID and records a document_created event.
func (s *SQLiteStorage) InsertDocument(ctx context.Context, doc *types.ScanDocument, actor string) (int64, error) {
	return s.insertDocument(ctx, doc, actor, nil)
}

// InsertConvertedDocument stores doc like InsertDocument and records the
// document_converted event for it in the same transaction.
func (s *SQLiteStorage) InsertConvertedDocument(ctx context.Context, doc *types.ScanDocument, data events.ConversionData, actor string) (int64, error) {
	return s.insertDocument(ctx, doc, actor, func(id int64) (*events.ActivityEvent, error) {
		event, err := events.NewConversionEvent(id, actor, data)
		if err != nil {
			return nil, fmt.Errorf("failed to build conversion event: %w", err)
		}
		event.FolderID = doc.FolderID
		return event, nil
	})
}

// insertDocument writes the row, its document_created event and, when extra
// is set, the event extra builds for the new id.
func (s *SQLiteStorage) insertDocument(ctx context.Context, doc *types.ScanDocument, actor string, extra func(id int64) (*events.ActivityEvent, error)) (int64, error) {
	if doc.Kind == "" {
		doc.Kind = types.KindGeneric
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}
	if err := doc.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO scan_documents (title, type, path, page_count, created_at, folder_id, kind)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		doc.Title, string(doc.Type), doc.Path, doc.PageCount,
		doc.CreatedAt.UTC(), nullInt64(doc.FolderID), string(doc.Kind),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert document: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get document id: %w", err)
	}

	event := events.NewDocumentEvent(events.EventTypeDocumentCreated, id, actor,
		fmt.Sprintf("Created %s document %q", doc.Type, doc.Title))
	event.FolderID = doc.FolderID
	event.Data = map[string]interface{}{
		"type":       string(doc.Type),
		"kind":       string(doc.Kind),
		"page_count": doc.PageCount,
		"path":       doc.Path,
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return 0, err
	}

	if extra != nil {
		more, err := extra(id)
		if err != nil {
			return 0, err
		}
		if err := insertEvent(ctx, tx, more); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	doc.ID = id
	return id, nil
}

// DeleteDocument removes a document row. Its files are the caller's concern.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id int64, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var title string
	err = tx.QueryRowContext(ctx, `SELECT title FROM scan_documents WHERE id = ?`, id).Scan(&title)
	if err == sql.ErrNoRows {
		return types.NotFoundf("document %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	event := events.NewDocumentEvent(events.EventTypeDocumentDeleted, id, actor,
		fmt.Sprintf("Deleted document %q", title))
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AssignFolder files every document in ids into folderID, or unfiles them when nil.
func (s *SQLiteStorage) AssignFolder(ctx context.Context, ids []int64, folderID *int64, actor string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if folderID != nil {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM folders WHERE id = ?`, *folderID).Scan(&exists)
		if err == sql.ErrNoRows {
			return types.NotFoundf("folder %d", *folderID)
		}
		if err != nil {
			return fmt.Errorf("failed to check folder: %w", err)
		}
	}

	args := []interface{}{nullInt64(folderID)}
	for _, id := range ids {
		args = append(args, id)
	}
	result, err := tx.ExecContext(ctx,
		`UPDATE scan_documents SET folder_id = ? WHERE id IN (`+placeholders(len(ids))+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("failed to assign folder: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected != int64(len(ids)) {
		return fmt.Errorf("assigned %d of %d documents: %w", affected, len(ids), types.ErrNotFound)
	}

	event, err := events.NewMoveEvent(actor, events.MoveData{DocumentIDs: ids, ToFolderID: folderID})
	if err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RenameDocument changes a document title.
func (s *SQLiteStorage) RenameDocument(ctx context.Context, id int64, title, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var oldTitle string
	err = tx.QueryRowContext(ctx, `SELECT title FROM scan_documents WHERE id = ?`, id).Scan(&oldTitle)
	if err == sql.ErrNoRows {
		return types.NotFoundf("document %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE scan_documents SET title = ? WHERE id = ?`, title, id); err != nil {
		return fmt.Errorf("failed to rename document: %w", err)
	}

	event, err := events.NewRenameEvent(id, actor, events.RenameData{OldTitle: oldTitle, NewTitle: title})
	if err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateDocumentFile points a document at a rewritten file and records the
// edit that produced it.
func (s *SQLiteStorage) UpdateDocumentFile(ctx context.Context, id int64, path string, pageCount int, edit events.EditData, actor string) error {
	if path == "" {
		return fmt.Errorf("path is required")
	}
	if pageCount < 1 {
		return fmt.Errorf("page_count must be at least 1 (got %d)", pageCount)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx,
		`UPDATE scan_documents SET path = ?, page_count = ? WHERE id = ?`,
		path, pageCount, id)
	if err != nil {
		return fmt.Errorf("failed to update document file: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return types.NotFoundf("document %d", id)
	}

	event, err := events.NewEditEvent(id, actor, edit)
	if err != nil {
		return err
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*types.ScanDocument, error) {
	var doc types.ScanDocument
	var docType, kind string
	var folderID sql.NullInt64

	if err := row.Scan(
		&doc.ID, &doc.Title, &docType, &doc.Path, &doc.PageCount,
		&doc.CreatedAt, &folderID, &kind,
	); err != nil {
		return nil, err
	}

	doc.Type = types.ScanType(docType)
	doc.Kind = types.DocumentKind(kind)
	doc.FolderID = int64Ptr(folderID)
	doc.CreatedAt = doc.CreatedAt.Local()
	return &doc, nil
}

func scanDocuments(rows *sql.Rows) ([]*types.ScanDocument, error) {
	result := make([]*types.ScanDocument, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		result = append(result, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return result, nil
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
