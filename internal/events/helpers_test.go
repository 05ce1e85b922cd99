package events

import (
	"testing"
)

func TestRenameEventRoundTripsData(t *testing.T) {
	event, err := NewRenameEvent(7, "cli", RenameData{OldTitle: "Scan", NewTitle: "Invoice"})
	if err != nil {
		t.Fatalf("NewRenameEvent failed: %v", err)
	}
	if event.Type != EventTypeDocumentRenamed {
		t.Errorf("Type = %s, want %s", event.Type, EventTypeDocumentRenamed)
	}
	if event.DocumentID == nil || *event.DocumentID != 7 {
		t.Errorf("DocumentID = %v, want 7", event.DocumentID)
	}
	if event.ID == "" {
		t.Error("expected a generated ID")
	}

	data, err := event.GetRenameData()
	if err != nil {
		t.Fatalf("GetRenameData failed: %v", err)
	}
	if data.OldTitle != "Scan" || data.NewTitle != "Invoice" {
		t.Errorf("unexpected data: %+v", data)
	}
}

func TestMoveEvent(t *testing.T) {
	folder := int64(3)
	tests := []struct {
		name         string
		data         MoveData
		wantFolder   bool
		wantDocument bool
	}{
		{"single document into folder", MoveData{DocumentIDs: []int64{1}, ToFolderID: &folder}, true, true},
		{"several documents into folder", MoveData{DocumentIDs: []int64{1, 2}, ToFolderID: &folder}, true, false},
		{"unfile", MoveData{DocumentIDs: []int64{4}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := NewMoveEvent("api", tt.data)
			if err != nil {
				t.Fatalf("NewMoveEvent failed: %v", err)
			}
			if (event.FolderID != nil) != tt.wantFolder {
				t.Errorf("FolderID set = %v, want %v", event.FolderID != nil, tt.wantFolder)
			}
			if (event.DocumentID != nil) != tt.wantDocument {
				t.Errorf("DocumentID set = %v, want %v", event.DocumentID != nil, tt.wantDocument)
			}
			data, err := event.GetMoveData()
			if err != nil {
				t.Fatalf("GetMoveData failed: %v", err)
			}
			if len(data.DocumentIDs) != len(tt.data.DocumentIDs) {
				t.Errorf("DocumentIDs = %v, want %v", data.DocumentIDs, tt.data.DocumentIDs)
			}
		})
	}
}

func TestConversionEventData(t *testing.T) {
	event, err := NewConversionEvent(12, "cli", ConversionData{
		SourceID: 5, SourceType: "IMAGE", TargetType: "PDF", Replaced: true,
	})
	if err != nil {
		t.Fatalf("NewConversionEvent failed: %v", err)
	}
	data, err := event.GetConversionData()
	if err != nil {
		t.Fatalf("GetConversionData failed: %v", err)
	}
	if data.SourceID != 5 || !data.Replaced || data.TargetType != "PDF" {
		t.Errorf("unexpected data: %+v", data)
	}
}

func TestEventTypeIsValid(t *testing.T) {
	if !EventTypeDocumentEdited.IsValid() {
		t.Error("document_edited should be valid")
	}
	if EventType("file_modified").IsValid() {
		t.Error("file_modified should not be valid")
	}
}
