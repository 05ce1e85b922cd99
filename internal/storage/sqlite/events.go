package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Resaura/NeonScan-v2/internal/events"
)

// StoreEvent stores an activity event outside of any other mutation.
func (s *SQLiteStorage) StoreEvent(ctx context.Context, event *events.ActivityEvent) error {
	if !event.Type.IsValid() {
		return fmt.Errorf("invalid event type: %s", event.Type)
	}
	return insertEvent(ctx, s.db, event)
}

// GetEvents retrieves events matching the given filter, most recent first
func (s *SQLiteStorage) GetEvents(ctx context.Context, filter events.EventFilter) ([]*events.ActivityEvent, error) {
	query := `
		SELECT id, event_type, timestamp, document_id, folder_id, actor, message, data
		FROM events
		WHERE 1=1
	`
	args := []interface{}{}

	if filter.DocumentID != nil {
		query += " AND document_id = ?"
		args = append(args, *filter.DocumentID)
	}
	if filter.FolderID != nil {
		query += " AND folder_id = ?"
		args = append(args, *filter.FolderID)
	}
	if filter.Type != "" {
		query += " AND event_type = ?"
		args = append(args, string(filter.Type))
	}
	if !filter.AfterTime.IsZero() {
		query += " AND timestamp > ?"
		args = append(args, filter.AfterTime.UTC())
	}

	query += " ORDER BY timestamp DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	result := make([]*events.ActivityEvent, 0)
	for rows.Next() {
		var event events.ActivityEvent
		var eventType, dataJSON string
		var documentID, folderID sql.NullInt64

		if err := rows.Scan(
			&event.ID, &eventType, &event.Timestamp, &documentID, &folderID,
			&event.Actor, &event.Message, &dataJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		event.Type = events.EventType(eventType)
		event.Timestamp = event.Timestamp.Local()
		event.DocumentID = int64Ptr(documentID)
		event.FolderID = int64Ptr(folderID)

		event.Data = make(map[string]interface{})
		if dataJSON != "" && dataJSON != "{}" {
			if err := json.Unmarshal([]byte(dataJSON), &event.Data); err != nil {
				return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
			}
		}

		result = append(result, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return result, nil
}
