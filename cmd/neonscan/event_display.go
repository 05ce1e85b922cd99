package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/Resaura/NeonScan-v2/internal/events"
)

// displayActivityEvent prints an event on two lines: summary, then metadata.
func displayActivityEvent(event *events.ActivityEvent) {
	timestamp := event.Timestamp.Format("2006-01-02 15:04:05")
	typeName := color.New(color.FgMagenta).Sprint(event.Type)
	subject := eventSubject(event)

	maxMessageLen := 60 - len(string(event.Type))
	message := truncateString(event.Message, maxMessageLen)

	fmt.Printf("%s [%s] %s%s: %s\n",
		getEventIcon(event.Type),
		timestamp,
		subject,
		typeName,
		message,
	)

	if metadata := extractEventMetadata(event); metadata != "" {
		fmt.Printf("  %s\n", gray(metadata))
	} else {
		fmt.Println()
	}
}

func eventSubject(event *events.ActivityEvent) string {
	switch {
	case event.DocumentID != nil:
		return green(fmt.Sprintf("#%d ", *event.DocumentID))
	case event.FolderID != nil:
		return cyan(fmt.Sprintf("folder %d ", *event.FolderID))
	}
	return ""
}

// getEventIcon returns a one-character marker per event type
func getEventIcon(t events.EventType) string {
	switch t {
	case events.EventTypeDocumentCreated:
		return "+"
	case events.EventTypeDocumentRenamed, events.EventTypeFolderUpdated:
		return "~"
	case events.EventTypeDocumentMoved, events.EventTypeFoldersReordered:
		return ">"
	case events.EventTypeDocumentEdited:
		return "*"
	case events.EventTypeDocumentConverted:
		return "="
	case events.EventTypeDocumentDeleted, events.EventTypeFolderDeleted:
		return "-"
	case events.EventTypeFolderCreated:
		return "+"
	case events.EventTypeEventCleanupCompleted:
		return "#"
	default:
		return "•"
	}
}

// extractEventMetadata extracts key data fields for each event type as a
// pipe-separated string.
func extractEventMetadata(event *events.ActivityEvent) string {
	var fields []string

	switch event.Type {
	case events.EventTypeDocumentCreated:
		// document_created: type | kind | pages
		fields = []string{
			getStringField(event.Data, "type", ""),
			strings.ToLower(getStringField(event.Data, "kind", "")),
			fmt.Sprintf("%d pages", getIntField(event.Data, "page_count", 0)),
		}

	case events.EventTypeDocumentRenamed:
		// rename: old → new
		fields = []string{fmt.Sprintf("%q → %q",
			getStringField(event.Data, "old_title", ""),
			getStringField(event.Data, "new_title", ""))}

	case events.EventTypeDocumentMoved:
		// move: documents | destination
		count := 0
		if ids, ok := event.Data["document_ids"].([]interface{}); ok {
			count = len(ids)
		}
		dest := "unfiled"
		if v, ok := event.Data["to_folder_id"]; ok && v != nil {
			dest = fmt.Sprintf("folder %d", getIntField(event.Data, "to_folder_id", 0))
		}
		fields = []string{fmt.Sprintf("%d documents", count), dest}

	case events.EventTypeDocumentEdited:
		// edit: rotation | crop | mode
		fields = []string{
			fmt.Sprintf("%g°", getFloatField(event.Data, "rotation", 0)),
			"crop " + getStringField(event.Data, "crop", "full"),
			strings.ToLower(getStringField(event.Data, "mode", "")),
		}

	case events.EventTypeDocumentConverted:
		// conversion: source | from → to | replaced
		replaced := ""
		if getBoolField(event.Data, "replaced", false) {
			replaced = "replaced"
		}
		fields = []string{
			fmt.Sprintf("from #%d", getIntField(event.Data, "source_id", 0)),
			getStringField(event.Data, "source_type", "?") + " → " + getStringField(event.Data, "target_type", "?"),
			replaced,
		}

	case events.EventTypeEventCleanupCompleted:
		// cleanup: deleted | remaining
		fields = []string{
			fmt.Sprintf("%d deleted", getIntField(event.Data, "events_deleted", 0)),
			fmt.Sprintf("%d remaining", getIntField(event.Data, "events_remaining", 0)),
		}
	}

	if event.Actor != "" && len(fields) > 0 {
		fields = append(fields, "by "+event.Actor)
	}
	return joinFields(fields)
}

func getStringField(data map[string]interface{}, key, defaultValue string) string {
	if val, ok := data[key].(string); ok {
		return val
	}
	return defaultValue
}

func getIntField(data map[string]interface{}, key string, defaultValue int) int {
	switch val := data[key].(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return defaultValue
}

func getFloatField(data map[string]interface{}, key string, defaultValue float64) float64 {
	switch val := data[key].(type) {
	case float64:
		return val
	case int:
		return float64(val)
	}
	return defaultValue
}

func getBoolField(data map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := data[key].(bool); ok {
		return val
	}
	return defaultValue
}

// joinFields joins non-empty metadata fields with " | "
func joinFields(fields []string) string {
	nonEmpty := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			nonEmpty = append(nonEmpty, f)
		}
	}
	return strings.Join(nonEmpty, " | ")
}
