package main

import (
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/storage"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

func init() {
	color.NoColor = true
}

func TestExtractEventMetadata(t *testing.T) {
	folder := int64(3)
	tests := []struct {
		name     string
		event    *events.ActivityEvent
		expected string
	}{
		{
			name: "created",
			event: &events.ActivityEvent{
				Type: events.EventTypeDocumentCreated,
				Data: map[string]interface{}{"type": "IMAGE", "kind": "ID_CARD", "page_count": float64(2)},
			},
			expected: "IMAGE | id_card | 2 pages",
		},
		{
			name: "moved into folder",
			event: &events.ActivityEvent{
				Type:  events.EventTypeDocumentMoved,
				Actor: "cli",
				Data:  map[string]interface{}{"document_ids": []interface{}{float64(1), float64(2)}, "to_folder_id": float64(folder)},
			},
			expected: "2 documents | folder 3 | by cli",
		},
		{
			name: "unfiled",
			event: &events.ActivityEvent{
				Type: events.EventTypeDocumentMoved,
				Data: map[string]interface{}{"document_ids": []interface{}{float64(1)}},
			},
			expected: "1 documents | unfiled",
		},
		{
			name: "converted with missing fields",
			event: &events.ActivityEvent{
				Type: events.EventTypeDocumentConverted,
				Data: map[string]interface{}{"source_id": float64(5)},
			},
			expected: "from #5 | ? → ?",
		},
		{
			name: "edited",
			event: &events.ActivityEvent{
				Type: events.EventTypeDocumentEdited,
				Data: map[string]interface{}{"rotation": 90.0, "crop": "0.1,0.1,0.8,0.8", "mode": "GRAYSCALE"},
			},
			expected: "90° | crop 0.1,0.1,0.8,0.8 | grayscale",
		},
		{
			name:     "no metadata",
			event:    &events.ActivityEvent{Type: events.EventTypeFolderDeleted, Actor: "api"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractEventMetadata(tt.event); got != tt.expected {
				t.Errorf("extractEventMetadata() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormatDocumentLine(t *testing.T) {
	folder := int64(2)
	doc := &types.ScanDocument{
		ID:        12,
		Title:     "Passport of 14 Mar 2025 09:26",
		Type:      types.TypeImage,
		PageCount: 3,
		CreatedAt: time.Date(2025, 3, 14, 9, 26, 0, 0, time.Local),
		FolderID:  &folder,
		Kind:      types.KindPassport,
	}
	line := formatDocumentLine(doc)
	for _, want := range []string{"  12", "IMAGE", "2025-03-14 09:26", "(3 pages)", "[folder 2]", "passport"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title", 8, "a lon..."},
		{"été à Paris", 6, "été..."},
		{"abc", 2, "..."},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"1", "20"})
	if err != nil {
		t.Fatalf("parseIDs failed: %v", err)
	}
	if len(ids) != 2 || ids[1] != 20 {
		t.Errorf("parseIDs = %v", ids)
	}
	for _, bad := range []string{"0", "-3", "x"} {
		if _, err := parseIDs([]string{bad}); err == nil {
			t.Errorf("parseIDs(%q) should fail", bad)
		}
	}
}

func TestFormatServerLock(t *testing.T) {
	lock := &storage.ServerLock{
		PID:       42,
		Hostname:  "desk",
		Addr:      "127.0.0.1:8787",
		StartedAt: time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC),
	}

	running := formatServerLock(lock, true)
	if !strings.HasPrefix(running, "● on 127.0.0.1:8787") || !strings.Contains(running, "PID 42 on desk") {
		t.Errorf("running lock = %q", running)
	}

	stale := formatServerLock(lock, false)
	if !strings.HasPrefix(stale, "stale 127.0.0.1:8787") {
		t.Errorf("stale lock = %q", stale)
	}
}

func TestHelpLists(t *testing.T) {
	if got := scanTypeNames(); got != "image, pdf, text, csv" {
		t.Errorf("scanTypeNames() = %q", got)
	}
	if got := paletteHelp(); !strings.HasPrefix(got, types.DefaultFolderColor+" ") {
		t.Errorf("paletteHelp() = %q", got)
	}
}
