package library

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/events"
)

// Activity returns recorded events, newest first.
func (l *Library) Activity(ctx context.Context, filter events.EventFilter) ([]*events.ActivityEvent, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, fmt.Errorf("unknown event type: %s", filter.Type)
	}
	return l.store.GetEvents(ctx, filter)
}

// CleanupResult summarizes one retention pass.
type CleanupResult struct {
	Deleted   int
	Remaining int
	Vacuumed  bool
	Duration  time.Duration
}

// CleanupEvents deletes events older than the retention window and records
// an event_cleanup_completed event. Disabled cleanup is a no-op.
func (l *Library) CleanupEvents(ctx context.Context) (*CleanupResult, error) {
	cfg := l.cfg.Events
	if !cfg.CleanupEnabled {
		return &CleanupResult{}, nil
	}
	start := l.now()

	deleted, err := l.store.CleanupEventsByAge(ctx, cfg.RetentionDays, cfg.CleanupBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to clean up events: %w", err)
	}
	result := &CleanupResult{Deleted: deleted}

	if cfg.CleanupVacuum && deleted > 0 {
		if err := l.store.VacuumDatabase(ctx); err != nil {
			l.logger.Warn("vacuum after event cleanup failed", zap.Error(err))
		} else {
			result.Vacuumed = true
		}
	}

	counts, err := l.store.GetEventCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	result.Remaining = counts.TotalEvents
	result.Duration = l.now().Sub(start)

	event := events.NewSimpleEvent(events.EventTypeEventCleanupCompleted, l.actor,
		fmt.Sprintf("Removed %d events older than %d days", deleted, cfg.RetentionDays))
	event.Data = map[string]interface{}{
		"events_deleted":   deleted,
		"events_remaining": result.Remaining,
		"retention_days":   cfg.RetentionDays,
		"vacuumed":         result.Vacuumed,
	}
	if err := l.store.StoreEvent(ctx, event); err != nil {
		l.logger.Warn("failed to record cleanup event", zap.Error(err))
	}
	if err := l.store.SetConfig(ctx, lastCleanupKey, l.now().UTC().Format(time.RFC3339)); err != nil {
		l.logger.Warn("failed to record cleanup time", zap.Error(err))
	}

	l.logger.Info("event cleanup completed",
		zap.Int("deleted", deleted), zap.Int("remaining", result.Remaining))
	return result, nil
}

const lastCleanupKey = "events.last_cleanup_at"

// Status summarizes the contents of a library.
type Status struct {
	SchemaVersion int
	Documents     int
	Unfiled       int
	Folders       int
	Events        int
	EventsByType  map[string]int
	// LastCleanup is zero when events were never pruned
	LastCleanup time.Time
}

// Status counts documents, folders and events.
func (l *Library) Status(ctx context.Context) (*Status, error) {
	version, err := l.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := l.store.AllDocuments(ctx)
	if err != nil {
		return nil, err
	}
	folders, err := l.store.ListFolders(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := l.store.GetEventCounts(ctx)
	if err != nil {
		return nil, err
	}

	st := &Status{
		SchemaVersion: version,
		Documents:     len(docs),
		Folders:       len(folders),
		Events:        counts.TotalEvents,
		EventsByType:  counts.EventsByType,
	}
	for _, d := range docs {
		if d.FolderID == nil {
			st.Unfiled++
		}
	}

	raw, err := l.store.GetConfig(ctx, lastCleanupKey)
	if err != nil {
		return nil, err
	}
	if raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			st.LastCleanup = ts.Local()
		}
	}
	return st, nil
}
