package types

import (
	"regexp"
	"strings"
	"time"
)

// DefaultFolderColor is assigned to new folders
const DefaultFolderColor = "#5CE1E6"

// FolderPalette is the set of colors offered when editing a folder
var FolderPalette = []string{"#5CE1E6", "#8B5CF6", "#F472B6", "#22D3EE", "#FBBF24", "#34D399"}

var colorHexPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Folder groups scan documents
type Folder struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"created_at"`
	DocumentCount int       `json:"document_count"`
	SortOrder     int       `json:"sort_order"`
	ColorHex      string    `json:"color_hex"`
}

// ValidateFolderName trims the name and rejects blank or oversized names.
func ValidateFolderName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", Invalidf("folder name cannot be empty")
	}
	if len(trimmed) > MaxTitleLength {
		return "", Invalidf("folder name must be %d characters or less (got %d)", MaxTitleLength, len(trimmed))
	}
	return trimmed, nil
}

// ValidateColorHex normalizes a #RRGGBB color to upper case.
func ValidateColorHex(color string) (string, error) {
	c := strings.TrimSpace(color)
	if !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	if !colorHexPattern.MatchString(c) {
		return "", Invalidf("color must be #RRGGBB (got %q)", color)
	}
	return strings.ToUpper(c), nil
}

// FolderOrder pairs a folder with its position in the manual ordering
type FolderOrder struct {
	FolderID int64 `json:"folder_id"`
	Index    int   `json:"index"`
}

// OrderFromIDs turns an ordered id list into (id, index) pairs.
func OrderFromIDs(ids []int64) []FolderOrder {
	order := make([]FolderOrder, 0, len(ids))
	for i, id := range ids {
		order = append(order, FolderOrder{FolderID: id, Index: i})
	}
	return order
}
