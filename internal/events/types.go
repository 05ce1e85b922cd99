package events

import (
	"time"
)

// EventType represents what happened to a document or folder.
type EventType string

const (
	// EventTypeDocumentCreated indicates a scan was captured and stored
	EventTypeDocumentCreated EventType = "document_created"
	// EventTypeDocumentRenamed indicates a document title changed
	EventTypeDocumentRenamed EventType = "document_renamed"
	// EventTypeDocumentMoved indicates a document was filed into or out of a folder
	EventTypeDocumentMoved EventType = "document_moved"
	// EventTypeDocumentEdited indicates the image pipeline rewrote a document's file
	EventTypeDocumentEdited EventType = "document_edited"
	// EventTypeDocumentConverted indicates a new document was produced from an existing one
	EventTypeDocumentConverted EventType = "document_converted"
	// EventTypeDocumentDeleted indicates a document row (and its files) was removed
	EventTypeDocumentDeleted EventType = "document_deleted"

	// EventTypeFolderCreated indicates a folder was created
	EventTypeFolderCreated EventType = "folder_created"
	// EventTypeFolderUpdated indicates a folder name or color changed
	EventTypeFolderUpdated EventType = "folder_updated"
	// EventTypeFolderDeleted indicates a folder was removed
	EventTypeFolderDeleted EventType = "folder_deleted"
	// EventTypeFoldersReordered indicates the manual folder order was saved
	EventTypeFoldersReordered EventType = "folders_reordered"

	// EventTypeEventCleanupCompleted indicates a retention cleanup pass finished
	EventTypeEventCleanupCompleted EventType = "event_cleanup_completed"
)

// IsValid reports whether t is a known event type.
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeDocumentCreated, EventTypeDocumentRenamed, EventTypeDocumentMoved,
		EventTypeDocumentEdited, EventTypeDocumentConverted, EventTypeDocumentDeleted,
		EventTypeFolderCreated, EventTypeFolderUpdated, EventTypeFolderDeleted,
		EventTypeFoldersReordered, EventTypeEventCleanupCompleted:
		return true
	}
	return false
}

// ActivityEvent is one row of the library's audit trail.
type ActivityEvent struct {
	// ID is the unique identifier for this event
	ID string `json:"id"`
	// Type is the type of event
	Type EventType `json:"type"`
	// Timestamp is when the event occurred
	Timestamp time.Time `json:"timestamp"`
	// DocumentID is set for document events
	DocumentID *int64 `json:"document_id,omitempty"`
	// FolderID is set for folder events and for moves into a folder
	FolderID *int64 `json:"folder_id,omitempty"`
	// Actor identifies who made the change (cli, api, ...)
	Actor string `json:"actor"`
	// Message is a human-readable description of the event
	Message string `json:"message"`
	// Data contains structured, type-specific data (must be JSON-serializable)
	Data map[string]interface{} `json:"data"`
}

// RenameData records a title change.
type RenameData struct {
	OldTitle string `json:"old_title"`
	NewTitle string `json:"new_title"`
}

// MoveData records a folder assignment. A nil folder means unfiled.
type MoveData struct {
	DocumentIDs []int64 `json:"document_ids"`
	ToFolderID  *int64  `json:"to_folder_id,omitempty"`
}

// ConversionData records where a converted document came from.
type ConversionData struct {
	SourceID   int64  `json:"source_id"`
	SourceType string `json:"source_type"`
	TargetType string `json:"target_type"`
	Replaced   bool   `json:"replaced"`
}

// EditData records the edit parameters applied to a document.
type EditData struct {
	Rotation   float64 `json:"rotation"`
	Crop       string  `json:"crop"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Mode       string  `json:"mode"`
}

// EventFilter is used to query events
type EventFilter struct {
	// DocumentID filters events by document
	DocumentID *int64
	// FolderID filters events by folder
	FolderID *int64
	// Type filters events by event type
	Type EventType
	// AfterTime filters events that occurred after this time
	AfterTime time.Time
	// Limit limits the number of events returned
	Limit int
}
