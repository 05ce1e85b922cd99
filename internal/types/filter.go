package types

import "sort"

// DocumentFilter narrows and orders a document list
type DocumentFilter struct {
	Type           *ScanType
	SortDescending bool
}

// DefaultDocumentFilter shows every type, newest first
func DefaultDocumentFilter() DocumentFilter {
	return DocumentFilter{SortDescending: true}
}

// ApplyFilter returns the documents matching the filter's type, ordered by
// creation time. The input slice is not modified.
func ApplyFilter(docs []*ScanDocument, filter DocumentFilter) []*ScanDocument {
	out := make([]*ScanDocument, 0, len(docs))
	for _, d := range docs {
		if filter.Type != nil && d.Type != *filter.Type {
			continue
		}
		out = append(out, d)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.SortDescending {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
