package sqlite

import (
	"context"
	"fmt"
	"time"
)

// EventCounts holds event count statistics
type EventCounts struct {
	TotalEvents  int
	EventsByType map[string]int
}

// CleanupEventsByAge deletes events older than retentionDays.
// Deletions are batched (batchSize events per statement).
func (s *SQLiteStorage) CleanupEventsByAge(ctx context.Context, retentionDays, batchSize int) (int, error) {
	if retentionDays < 0 {
		return 0, fmt.Errorf("retention days cannot be negative")
	}
	if batchSize < 1 {
		return 0, fmt.Errorf("batch size must be at least 1")
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays).UTC()
	totalDeleted := 0

	for {
		select {
		case <-ctx.Done():
			return totalDeleted, ctx.Err()
		default:
		}

		result, err := s.db.ExecContext(ctx, `
			DELETE FROM events
			WHERE id IN (
				SELECT id FROM events
				WHERE timestamp < ?
				ORDER BY timestamp ASC
				LIMIT ?
			)
		`, cutoff, batchSize)
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to delete old events: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return totalDeleted, fmt.Errorf("failed to get rows affected: %w", err)
		}
		totalDeleted += int(rowsAffected)

		// Fewer than a full batch means nothing older remains
		if rowsAffected < int64(batchSize) {
			break
		}
	}

	return totalDeleted, nil
}

// GetEventCounts returns event totals overall and per event type
func (s *SQLiteStorage) GetEventCounts(ctx context.Context) (*EventCounts, error) {
	counts := &EventCounts{EventsByType: make(map[string]int)}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&counts.TotalEvents); err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT event_type, COUNT(*) FROM events GROUP BY event_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by type: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventType string
		var n int
		if err := rows.Scan(&eventType, &n); err != nil {
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		counts.EventsByType[eventType] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type counts: %w", err)
	}

	return counts, nil
}

// VacuumDatabase runs the VACUUM command to reclaim disk space
func (s *SQLiteStorage) VacuumDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}
