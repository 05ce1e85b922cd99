package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalid marks validation failures so callers can tell bad input from
// storage errors.
var ErrInvalid = errors.New("invalid input")

// ErrNotFound marks lookups of documents or folders that do not exist.
var ErrNotFound = errors.New("not found")

// NotFoundf returns an error wrapping ErrNotFound.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// Invalidf returns a validation error wrapping ErrInvalid.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// MaxTitleLength bounds document titles and folder names.
const MaxTitleLength = 500

// ScanDocument is a captured document record
type ScanDocument struct {
	ID        int64        `json:"id"`
	Title     string       `json:"title"`
	Type      ScanType     `json:"type"`
	Path      string       `json:"path"`
	PageCount int          `json:"page_count"`
	CreatedAt time.Time    `json:"created_at"`
	FolderID  *int64       `json:"folder_id,omitempty"`
	Kind      DocumentKind `json:"kind"`
}

// Validate checks if the document has valid field values
func (d *ScanDocument) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return Invalidf("title is required")
	}
	if len(d.Title) > MaxTitleLength {
		return Invalidf("title must be %d characters or less (got %d)", MaxTitleLength, len(d.Title))
	}
	if !d.Type.IsValid() {
		return Invalidf("invalid scan type: %s", d.Type)
	}
	if !d.Kind.IsValid() {
		return Invalidf("invalid document kind: %s", d.Kind)
	}
	if d.Path == "" {
		return Invalidf("path is required")
	}
	if d.PageCount < 1 {
		return Invalidf("page_count must be at least 1 (got %d)", d.PageCount)
	}
	return nil
}

// InFolder reports whether the document is filed under folderID.
// A nil folderID matches unfiled documents.
func (d *ScanDocument) InFolder(folderID *int64) bool {
	if folderID == nil {
		return d.FolderID == nil
	}
	return d.FolderID != nil && *d.FolderID == *folderID
}

// ScanType is the logical representation of a document's file
type ScanType string

const (
	TypeImage ScanType = "IMAGE"
	TypePDF   ScanType = "PDF"
	TypeText  ScanType = "TEXT"
	TypeCSV   ScanType = "CSV"
)

// AllScanTypes lists every scan type in display order
var AllScanTypes = []ScanType{TypeImage, TypePDF, TypeText, TypeCSV}

// IsValid checks if the scan type value is valid
func (t ScanType) IsValid() bool {
	switch t {
	case TypeImage, TypePDF, TypeText, TypeCSV:
		return true
	}
	return false
}

// Extension returns the file extension written for freshly converted files
func (t ScanType) Extension() string {
	switch t {
	case TypePDF:
		return "pdf"
	case TypeText:
		return "txt"
	case TypeCSV:
		return "csv"
	default:
		return "jpg"
	}
}

// MIME returns the content type used when exporting files of this type
func (t ScanType) MIME() string {
	switch t {
	case TypePDF:
		return "application/pdf"
	case TypeText:
		return "text/plain"
	case TypeCSV:
		return "text/csv"
	default:
		return "image/jpeg"
	}
}

// ParseScanTypeStrict maps user input (type names and common file extensions)
// to a scan type, failing on anything it does not recognize.
func ParseScanTypeStrict(raw string) (ScanType, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PDF":
		return TypePDF, nil
	case "IMAGE", "JPG", "JPEG", "PNG", "WEBP":
		return TypeImage, nil
	case "DOC", "DOCX", "TXT", "TEXT":
		return TypeText, nil
	case "XLS", "XLSX", "CSV":
		return TypeCSV, nil
	}
	return "", Invalidf("unknown scan type: %q", raw)
}

// ParseScanType is like ParseScanTypeStrict but falls back to PDF.
func ParseScanType(raw string) ScanType {
	t, err := ParseScanTypeStrict(raw)
	if err != nil {
		return TypePDF
	}
	return t
}

// DocumentKind tags documents captured through a dedicated flow
type DocumentKind string

const (
	KindGeneric  DocumentKind = "GENERIC"
	KindIDCard   DocumentKind = "ID_CARD"
	KindPassport DocumentKind = "PASSPORT"
)

// IsValid checks if the kind value is valid
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindGeneric, KindIDCard, KindPassport:
		return true
	}
	return false
}

// ParseDocumentKind accepts kind names case-insensitively; empty means generic.
func ParseDocumentKind(raw string) (DocumentKind, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "" {
		return KindGeneric, nil
	}
	k := DocumentKind(s)
	if !k.IsValid() {
		return "", Invalidf("unknown document kind: %q", raw)
	}
	return k, nil
}
