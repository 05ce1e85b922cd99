package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Resaura/NeonScan-v2/internal/config"
	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/library"
	"github.com/Resaura/NeonScan-v2/internal/storage"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testServer struct {
	*Server
	lib *library.Library
	dir string
}

func setupServer(t *testing.T, apiCfg config.APIConfig) *testServer {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewStorage(context.Background(), &storage.Config{Path: filepath.Join(dir, "neonscan.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	lib := library.New(store, filepath.Join(dir, "scans"), config.DefaultConfig(), nil)
	return &testServer{Server: New(lib, apiCfg, nil), lib: lib, dir: dir}
}

func defaultAPI() config.APIConfig {
	return config.DefaultConfig().API
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) scan(t *testing.T, title string) *types.ScanDocument {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	src := filepath.Join(ts.dir, title+".png")
	require.NoError(t, os.WriteFile(src, buf.Bytes(), 0644))

	doc, err := ts.lib.CreateScan(context.Background(), library.CreateScanInput{SourcePaths: []string{src}, Title: title})
	require.NoError(t, err)
	return doc
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealthAndRequestID(t *testing.T) {
	ts := setupServer(t, defaultAPI())

	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	var body errorBody
	decodeBody(t, rec, &body)
	assert.Equal(t, "abc-123", body.RequestID)
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	for _, path := range []string{"/documents", "/documents/recent", "/folders", "/events"} {
		rec := ts.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()), path)
	}
}

func TestDocumentRoutes(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	a := ts.scan(t, "Alpha")
	b := ts.scan(t, "Beta")

	rec := ts.do(t, http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []types.ScanDocument
	decodeBody(t, rec, &docs)
	assert.Len(t, docs, 2)

	rec = ts.do(t, http.MethodGet, "/documents?type=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	docs = nil
	decodeBody(t, rec, &docs)
	assert.Empty(t, docs)

	rec = ts.do(t, http.MethodGet, "/documents?type=docx2", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/documents/recent?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	docs = nil
	decodeBody(t, rec, &docs)
	require.Len(t, docs, 1)

	rec = ts.do(t, http.MethodPatch, "/documents/"+itoa(a.ID), renameRequest{Title: "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)
	var doc types.ScanDocument
	decodeBody(t, rec, &doc)
	assert.Equal(t, "Renamed", doc.Title)

	rec = ts.do(t, http.MethodPatch, "/documents/"+itoa(a.ID), renameRequest{Title: " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/documents/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/documents/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = ts.do(t, http.MethodGet, "/documents/"+itoa(b.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/documents/"+itoa(a.ID)+"/convert", convertRequest{To: "txt"})
	require.Equal(t, http.StatusCreated, rec.Code)
	decodeBody(t, rec, &doc)
	assert.Equal(t, types.TypeText, doc.Type)

	rec = ts.do(t, http.MethodPost, "/documents/"+itoa(a.ID)+"/convert", convertRequest{To: "image"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPatch, "/documents/"+itoa(a.ID), strings.NewReader(`{"title":"x","extra":1}`))
	raw := httptest.NewRecorder()
	ts.Handler().ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestEditRoute(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	doc := ts.scan(t, "Page")

	rec := ts.do(t, http.MethodPost, "/documents/"+itoa(doc.ID)+"/edit", editRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no pending changes")

	rec = ts.do(t, http.MethodPost, "/documents/"+itoa(doc.ID)+"/edit", editRequest{Rotation: 90, Mode: "bw"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/documents/"+itoa(doc.ID)+"/edit", editRequest{Crop: "0.5,0.5,0.9,0.9"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDocumentFileRoute(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	doc := ts.scan(t, "Photo")

	rec := ts.do(t, http.MethodGet, "/documents/"+itoa(doc.ID)+"/file", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))

	rec = ts.do(t, http.MethodPost, "/documents/"+itoa(doc.ID)+"/convert", convertRequest{To: "csv"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var csvDoc types.ScanDocument
	decodeBody(t, rec, &csvDoc)

	rec = ts.do(t, http.MethodGet, "/documents/"+itoa(csvDoc.ID)+"/file", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Document,Source,Date")

	require.NoError(t, os.Remove(doc.Path))
	rec = ts.do(t, http.MethodGet, "/documents/"+itoa(doc.ID)+"/file", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/documents/9999/file", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFolderRoutes(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	doc := ts.scan(t, "Receipt")

	rec := ts.do(t, http.MethodPost, "/folders", folderRequest{Name: "Bills", Color: "#ff0000"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bills types.Folder
	decodeBody(t, rec, &bills)
	assert.Equal(t, "#FF0000", bills.ColorHex)

	rec = ts.do(t, http.MethodPost, "/folders", folderRequest{Name: "Taxes"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var taxes types.Folder
	decodeBody(t, rec, &taxes)

	rec = ts.do(t, http.MethodPost, "/documents/assign", assignRequest{DocumentIDs: []int64{doc.ID}, FolderID: &bills.ID})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/folders/"+itoa(bills.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		types.Folder
		Documents []types.ScanDocument `json:"documents"`
	}
	decodeBody(t, rec, &got)
	assert.Equal(t, 1, got.DocumentCount)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, doc.ID, got.Documents[0].ID)

	rec = ts.do(t, http.MethodGet, "/documents?folder=none", nil)
	var unfiled []types.ScanDocument
	decodeBody(t, rec, &unfiled)
	assert.Empty(t, unfiled)

	rec = ts.do(t, http.MethodPost, "/folders/reorder", reorderRequest{FolderIDs: []int64{taxes.ID, bills.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	var folders []types.Folder
	decodeBody(t, rec, &folders)
	require.Len(t, folders, 2)
	assert.Equal(t, taxes.ID, folders[0].ID)

	rec = ts.do(t, http.MethodPut, "/folders/"+itoa(taxes.ID), folderRequest{Name: "Tax 2025"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/folders/9999", folderRequest{Name: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/folders/"+itoa(bills.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/events?type=folders_reordered", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var evs []events.ActivityEvent
	decodeBody(t, rec, &evs)
	require.Len(t, evs, 1)
	assert.Equal(t, Actor, evs[0].Actor)

	rec = ts.do(t, http.MethodGet, "/events?type=nonsense", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	ts := setupServer(t, config.APIConfig{Addr: "127.0.0.1:0", RateLimit: 0.001, Burst: 2})

	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil).Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/health", nil).Code)
	rec := ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestServeShutsDown(t *testing.T) {
	ts := setupServer(t, defaultAPI())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ts.serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}, Timeout: 5 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
