package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewDocumentEvent creates an event about a single document with no structured data.
func NewDocumentEvent(eventType EventType, documentID int64, actor, message string) *ActivityEvent {
	id := documentID
	return &ActivityEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now(),
		DocumentID: &id,
		Actor:      actor,
		Message:    message,
		Data:       make(map[string]interface{}),
	}
}

// NewFolderEvent creates an event about a folder.
func NewFolderEvent(eventType EventType, folderID int64, actor, message string) *ActivityEvent {
	id := folderID
	return &ActivityEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		FolderID:  &id,
		Actor:     actor,
		Message:   message,
		Data:      make(map[string]interface{}),
	}
}

// NewSimpleEvent creates an event attached to neither a document nor a folder.
func NewSimpleEvent(eventType EventType, actor, message string) *ActivityEvent {
	return &ActivityEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now(),
		Actor:     actor,
		Message:   message,
		Data:      make(map[string]interface{}),
	}
}

// NewRenameEvent creates a document_renamed event.
func NewRenameEvent(documentID int64, actor string, data RenameData) (*ActivityEvent, error) {
	event := NewDocumentEvent(EventTypeDocumentRenamed, documentID, actor,
		fmt.Sprintf("Renamed %q to %q", data.OldTitle, data.NewTitle))
	if err := event.setData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewMoveEvent creates a document_moved event covering every moved document.
func NewMoveEvent(actor string, data MoveData) (*ActivityEvent, error) {
	event := NewSimpleEvent(EventTypeDocumentMoved, actor, "")
	if data.ToFolderID != nil {
		id := *data.ToFolderID
		event.FolderID = &id
		event.Message = fmt.Sprintf("Moved %d document(s) to folder %d", len(data.DocumentIDs), id)
	} else {
		event.Message = fmt.Sprintf("Removed %d document(s) from their folder", len(data.DocumentIDs))
	}
	if len(data.DocumentIDs) == 1 {
		id := data.DocumentIDs[0]
		event.DocumentID = &id
	}
	if err := event.setData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewConversionEvent creates a document_converted event on the new document.
func NewConversionEvent(newDocumentID int64, actor string, data ConversionData) (*ActivityEvent, error) {
	event := NewDocumentEvent(EventTypeDocumentConverted, newDocumentID, actor,
		fmt.Sprintf("Converted document %d from %s to %s", data.SourceID, data.SourceType, data.TargetType))
	if err := event.setData(data); err != nil {
		return nil, err
	}
	return event, nil
}

// NewEditEvent creates a document_edited event.
func NewEditEvent(documentID int64, actor string, data EditData) (*ActivityEvent, error) {
	event := NewDocumentEvent(EventTypeDocumentEdited, documentID, actor, "Applied image edits")
	if err := event.setData(data); err != nil {
		return nil, err
	}
	return event, nil
}
