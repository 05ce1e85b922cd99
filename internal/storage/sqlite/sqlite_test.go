package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

// setupTestDB creates a temporary test database
func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	storage, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	t.Cleanup(func() {
		_ = storage.Close()
	})
	return storage
}

func insertTestDocument(t *testing.T, s *SQLiteStorage, title string, createdAt time.Time, folderID *int64) *types.ScanDocument {
	t.Helper()
	doc := &types.ScanDocument{
		Title:     title,
		Type:      types.TypeImage,
		Path:      "/scans/" + title + "/page_1.jpg",
		PageCount: 1,
		CreatedAt: createdAt,
		FolderID:  folderID,
	}
	if _, err := s.InsertDocument(context.Background(), doc, "test"); err != nil {
		t.Fatalf("InsertDocument(%s) failed: %v", title, err)
	}
	return doc
}

func TestSchemaVersion(t *testing.T) {
	s := setupTestDB(t)
	version, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	s, err := New(path)
	require.NoError(t, err)
	insertTestDocument(t, s, "invoice", time.Now(), nil)
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	docs, err := s.AllDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "invoice", docs[0].Title)
}

func TestInMemory(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	insertTestDocument(t, s, "memo", time.Now(), nil)
	docs, err := s.AllDocuments(context.Background())
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestInsertAndGetDocument(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	created := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	doc := &types.ScanDocument{
		Title:     "Passport",
		Type:      types.TypeImage,
		Path:      "/scans/p/page_1.jpg",
		PageCount: 3,
		CreatedAt: created,
		Kind:      types.KindPassport,
	}
	id, err := s.InsertDocument(ctx, doc, "test")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	got, err := s.GetDocument(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)

	want := *doc
	if diff := cmp.Diff(&want, got, cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("GetDocument mismatch (-want +got):\n%s", diff)
	}

	missing, err := s.GetDocument(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertDocumentDefaults(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	doc := &types.ScanDocument{Title: "x", Type: types.TypePDF, Path: "/x.pdf", PageCount: 1}
	_, err := s.InsertDocument(ctx, doc, "test")
	require.NoError(t, err)
	assert.Equal(t, types.KindGeneric, doc.Kind)
	assert.False(t, doc.CreatedAt.IsZero())

	_, err = s.InsertDocument(ctx, &types.ScanDocument{Title: " ", Type: types.TypePDF, Path: "/x", PageCount: 1}, "test")
	assert.ErrorIs(t, err, types.ErrInvalid)
}

func TestDocumentOrdering(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"a", "b", "c", "d"} {
		insertTestDocument(t, s, title, base.Add(time.Duration(i)*time.Hour), nil)
	}

	all, err := s.AllDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b", "a"}, titles(all))

	recent, err := s.RecentDocuments(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c"}, titles(recent))

	_, err = s.RecentDocuments(ctx, 0)
	assert.Error(t, err)
}

func TestDocumentsByFolder(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	folderID, err := s.CreateFolder(ctx, "Taxes", "test")
	require.NoError(t, err)

	now := time.Now()
	insertTestDocument(t, s, "filed", now, &folderID)
	insertTestDocument(t, s, "loose", now.Add(time.Second), nil)

	filed, err := s.DocumentsByFolder(ctx, &folderID)
	require.NoError(t, err)
	assert.Equal(t, []string{"filed"}, titles(filed))

	unfiled, err := s.DocumentsByFolder(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"loose"}, titles(unfiled))
}

func TestAssignFolder(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	folderID, err := s.CreateFolder(ctx, "Receipts", "test")
	require.NoError(t, err)
	a := insertTestDocument(t, s, "a", time.Now(), nil)
	b := insertTestDocument(t, s, "b", time.Now(), nil)

	require.NoError(t, s.AssignFolder(ctx, []int64{a.ID, b.ID, a.ID}, &folderID, "test"))

	got, err := s.GetDocument(ctx, a.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FolderID)
	assert.Equal(t, folderID, *got.FolderID)

	require.NoError(t, s.AssignFolder(ctx, []int64{b.ID}, nil, "test"))
	got, err = s.GetDocument(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.FolderID)

	missingFolder := int64(404)
	err = s.AssignFolder(ctx, []int64{a.ID}, &missingFolder, "test")
	assert.ErrorContains(t, err, "folder 404 not found")

	err = s.AssignFolder(ctx, []int64{a.ID, 9999}, &folderID, "test")
	assert.ErrorContains(t, err, "not found")

	// failed assignment rolled back
	got, err = s.GetDocument(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, folderID, *got.FolderID)

	moves, err := s.GetEvents(ctx, events.EventFilter{Type: events.EventTypeDocumentMoved})
	require.NoError(t, err)
	assert.Len(t, moves, 2)
}

func TestRenameAndDeleteDocument(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	doc := insertTestDocument(t, s, "Scan", time.Now(), nil)
	require.NoError(t, s.RenameDocument(ctx, doc.ID, "Lease", "test"))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lease", got.Title)

	renames, err := s.GetEvents(ctx, events.EventFilter{DocumentID: &doc.ID, Type: events.EventTypeDocumentRenamed})
	require.NoError(t, err)
	require.Len(t, renames, 1)
	data, err := renames[0].GetRenameData()
	require.NoError(t, err)
	assert.Equal(t, "Scan", data.OldTitle)
	assert.Equal(t, "Lease", data.NewTitle)

	assert.Error(t, s.RenameDocument(ctx, 999, "x", "test"))

	require.NoError(t, s.DeleteDocument(ctx, doc.ID, "test"))
	got, err = s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorContains(t, s.DeleteDocument(ctx, doc.ID, "test"), "not found")

	// history survives the document
	history, err := s.GetEvents(ctx, events.EventFilter{DocumentID: &doc.ID})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, events.EventTypeDocumentDeleted, history[0].Type)
}

func TestUpdateDocumentFile(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	doc := insertTestDocument(t, s, "Scan", time.Now(), nil)
	edit := events.EditData{Rotation: 90, Mode: "GRAYSCALE", Contrast: 1}
	require.NoError(t, s.UpdateDocumentFile(ctx, doc.ID, "/scans/new.png", 2, edit, "test"))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "/scans/new.png", got.Path)
	assert.Equal(t, 2, got.PageCount)

	edits, err := s.GetEvents(ctx, events.EventFilter{Type: events.EventTypeDocumentEdited})
	require.NoError(t, err)
	require.Len(t, edits, 1)
	data, err := edits[0].GetEditData()
	require.NoError(t, err)
	assert.Equal(t, float64(90), data.Rotation)

	assert.Error(t, s.UpdateDocumentFile(ctx, 999, "/x", 1, edit, "test"))
	assert.Error(t, s.UpdateDocumentFile(ctx, doc.ID, "", 1, edit, "test"))
}

func TestFolders(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	first, err := s.CreateFolder(ctx, "Bills", "test")
	require.NoError(t, err)
	second, err := s.CreateFolder(ctx, "IDs", "test")
	require.NoError(t, err)

	f, err := s.GetFolder(ctx, second)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, 1, f.SortOrder)
	assert.Equal(t, types.DefaultFolderColor, f.ColorHex)

	insertTestDocument(t, s, "a", time.Now(), &first)
	insertTestDocument(t, s, "b", time.Now(), &first)

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Bills", folders[0].Name)
	assert.Equal(t, 2, folders[0].DocumentCount)
	assert.Equal(t, 0, folders[1].DocumentCount)

	require.NoError(t, s.UpdateFolder(ctx, first, "Utilities", "#8B5CF6", "test"))
	f, err = s.GetFolder(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, "Utilities", f.Name)
	assert.Equal(t, "#8B5CF6", f.ColorHex)
	assert.Equal(t, 2, f.DocumentCount)

	assert.Error(t, s.UpdateFolder(ctx, 999, "x", "#000000", "test"))

	missing, err := s.GetFolder(ctx, 999)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestDeleteFolderUnfilesDocuments(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	folderID, err := s.CreateFolder(ctx, "Old", "test")
	require.NoError(t, err)
	doc := insertTestDocument(t, s, "kept", time.Now(), &folderID)

	require.NoError(t, s.DeleteFolder(ctx, folderID, "test"))

	got, err := s.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.FolderID)

	assert.Error(t, s.DeleteFolder(ctx, folderID, "test"))
}

func TestUpdateFolderOrders(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	var ids []int64
	for _, name := range []string{"one", "two", "three"} {
		id, err := s.CreateFolder(ctx, name, "test")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	reordered := []int64{ids[2], ids[0], ids[1]}
	require.NoError(t, s.UpdateFolderOrders(ctx, types.OrderFromIDs(reordered), "test"))

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"three", "one", "two"}, names)

	// unknown folder aborts the whole reorder
	err = s.UpdateFolderOrders(ctx, []types.FolderOrder{{FolderID: ids[0], Index: 5}, {FolderID: 999, Index: 0}}, "test")
	assert.Error(t, err)
	f, err := s.GetFolder(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, 1, f.SortOrder)

	// next folder goes after the highest index
	id, err := s.CreateFolder(ctx, "four", "test")
	require.NoError(t, err)
	f, err = s.GetFolder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 3, f.SortOrder)
}

func TestEventsAndCleanup(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	old := events.NewSimpleEvent(events.EventTypeEventCleanupCompleted, "test", "old")
	old.Timestamp = time.Now().AddDate(0, 0, -100)
	require.NoError(t, s.StoreEvent(ctx, old))

	fresh := events.NewSimpleEvent(events.EventTypeEventCleanupCompleted, "test", "fresh")
	require.NoError(t, s.StoreEvent(ctx, fresh))

	bad := events.NewSimpleEvent("bogus", "test", "")
	assert.Error(t, s.StoreEvent(ctx, bad))

	counts, err := s.GetEventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.TotalEvents)
	assert.Equal(t, 2, counts.EventsByType[string(events.EventTypeEventCleanupCompleted)])

	deleted, err := s.CleanupEventsByAge(ctx, 90, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	remaining, err := s.GetEvents(ctx, events.EventFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].Message)

	_, err = s.CleanupEventsByAge(ctx, -1, 100)
	assert.Error(t, err)
	_, err = s.CleanupEventsByAge(ctx, 1, 0)
	assert.Error(t, err)

	require.NoError(t, s.VacuumDatabase(ctx))
}

func TestInsertConvertedDocument(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)
	src := insertTestDocument(t, s, "Invoice", time.Now(), nil)

	doc := &types.ScanDocument{Title: "Invoice", Type: types.TypePDF, Path: "/scans/x/document.pdf", PageCount: 1}
	data := events.ConversionData{SourceID: src.ID, SourceType: "IMAGE", TargetType: "PDF", Replaced: true}
	id, err := s.InsertConvertedDocument(ctx, doc, data, "test")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	evs, err := s.GetEvents(ctx, events.EventFilter{DocumentID: &id, Limit: 10})
	require.NoError(t, err)
	require.Len(t, evs, 2)
	var converted *events.ActivityEvent
	for _, e := range evs {
		if e.Type == events.EventTypeDocumentConverted {
			converted = e
		}
	}
	require.NotNil(t, converted)
	got, err := converted.GetConversionData()
	require.NoError(t, err)
	assert.Equal(t, src.ID, got.SourceID)
	assert.True(t, got.Replaced)

	// an invalid document leaves neither a row nor events behind
	before, err := s.GetEventCounts(ctx)
	require.NoError(t, err)
	_, err = s.InsertConvertedDocument(ctx, &types.ScanDocument{Type: types.TypePDF, Path: "/p.pdf", PageCount: 1}, data, "test")
	require.ErrorIs(t, err, types.ErrInvalid)
	after, err := s.GetEventCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.TotalEvents, after.TotalEvents)
	all, err := s.AllDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmptyListsAreNotNil(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	recent, err := s.RecentDocuments(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, recent)
	assert.Empty(t, recent)

	folders, err := s.ListFolders(ctx)
	require.NoError(t, err)
	assert.NotNil(t, folders)
	assert.Empty(t, folders)

	evs, err := s.GetEvents(ctx, events.EventFilter{Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, evs)
	assert.Empty(t, evs)
}

func TestConfigMethods(t *testing.T) {
	ctx := context.Background()
	s := setupTestDB(t)

	value, err := s.GetConfig(ctx, "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, "", value)

	require.NoError(t, s.SetConfig(ctx, "last_export_dir", "/tmp/a"))
	require.NoError(t, s.SetConfig(ctx, "last_export_dir", "/tmp/b"))

	value, err = s.GetConfig(ctx, "last_export_dir")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/b", value)
}

func titles(docs []*types.ScanDocument) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Title)
	}
	return out
}
