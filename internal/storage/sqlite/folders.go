package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// CreateFolder creates a folder at the end of the manual ordering with the
// default color.
func (s *SQLiteStorage) CreateFolder(ctx context.Context, name, actor string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM folders`,
	).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute sort order: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO folders (name, created_at, sort_order, color_hex)
		VALUES (?, ?, ?, ?)
	`, name, time.Now().UTC(), next, types.DefaultFolderColor)
	if err != nil {
		return 0, fmt.Errorf("failed to insert folder: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get folder id: %w", err)
	}

	event := events.NewFolderEvent(events.EventTypeFolderCreated, id, actor,
		fmt.Sprintf("Created folder %q", name))
	if err := insertEvent(ctx, tx, event); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return id, nil
}

// ListFolders returns every folder with its document count, in manual order.
func (s *SQLiteStorage) ListFolders(ctx context.Context) ([]*types.Folder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.id, f.name, f.created_at, f.sort_order, f.color_hex, COUNT(d.id)
		FROM folders f
		LEFT JOIN scan_documents d ON d.folder_id = f.id
		GROUP BY f.id
		ORDER BY f.sort_order ASC, f.created_at DESC, f.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query folders: %w", err)
	}
	defer rows.Close()

	result := make([]*types.Folder, 0)
	for rows.Next() {
		var f types.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.SortOrder, &f.ColorHex, &f.DocumentCount); err != nil {
			return nil, fmt.Errorf("failed to scan folder: %w", err)
		}
		f.CreatedAt = f.CreatedAt.Local()
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating folder rows: %w", err)
	}
	return result, nil
}

// GetFolder retrieves a folder by ID. It returns (nil, nil) when absent.
func (s *SQLiteStorage) GetFolder(ctx context.Context, id int64) (*types.Folder, error) {
	var f types.Folder
	err := s.db.QueryRowContext(ctx, `
		SELECT f.id, f.name, f.created_at, f.sort_order, f.color_hex,
		       (SELECT COUNT(*) FROM scan_documents d WHERE d.folder_id = f.id)
		FROM folders f
		WHERE f.id = ?
	`, id).Scan(&f.ID, &f.Name, &f.CreatedAt, &f.SortOrder, &f.ColorHex, &f.DocumentCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get folder: %w", err)
	}
	f.CreatedAt = f.CreatedAt.Local()
	return &f, nil
}

// UpdateFolder changes a folder's name and color.
func (s *SQLiteStorage) UpdateFolder(ctx context.Context, id int64, name, colorHex, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var oldName, oldColor string
	err = tx.QueryRowContext(ctx, `SELECT name, color_hex FROM folders WHERE id = ?`, id).Scan(&oldName, &oldColor)
	if err == sql.ErrNoRows {
		return types.NotFoundf("folder %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get folder: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE folders SET name = ?, color_hex = ? WHERE id = ?`,
		name, colorHex, id); err != nil {
		return fmt.Errorf("failed to update folder: %w", err)
	}

	event := events.NewFolderEvent(events.EventTypeFolderUpdated, id, actor,
		fmt.Sprintf("Updated folder %q", name))
	event.Data = map[string]interface{}{
		"old_name":  oldName,
		"new_name":  name,
		"old_color": oldColor,
		"new_color": colorHex,
	}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteFolder removes a folder. Its documents become unfiled.
func (s *SQLiteStorage) DeleteFolder(ctx context.Context, id int64, actor string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM folders WHERE id = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return types.NotFoundf("folder %d", id)
	}
	if err != nil {
		return fmt.Errorf("failed to get folder: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	event := events.NewFolderEvent(events.EventTypeFolderDeleted, id, actor,
		fmt.Sprintf("Deleted folder %q", name))
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateFolderOrders saves a manual ordering in a single transaction.
func (s *SQLiteStorage) UpdateFolderOrders(ctx context.Context, orders []types.FolderOrder, actor string) error {
	if len(orders) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE folders SET sort_order = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		result, err := stmt.ExecContext(ctx, o.Index, o.FolderID)
		if err != nil {
			return fmt.Errorf("failed to update order of folder %d: %w", o.FolderID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if affected == 0 {
			return types.NotFoundf("folder %d", o.FolderID)
		}
		ids = append(ids, o.FolderID)
	}

	event := events.NewSimpleEvent(events.EventTypeFoldersReordered, actor,
		fmt.Sprintf("Reordered %d folder(s)", len(orders)))
	event.Data = map[string]interface{}{"folder_ids": ids}
	if err := insertEvent(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
