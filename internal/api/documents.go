package api

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Resaura/NeonScan-v2/internal/imaging"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListDocuments serves GET /documents. folder=<id> scopes to one
// folder and folder=none to unfiled documents; type and order=asc filter
// and sort.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := types.DefaultDocumentFilter()
	if raw := q.Get("type"); raw != "" {
		t, err := types.ParseScanTypeStrict(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.Type = &t
	}
	if strings.EqualFold(q.Get("order"), "asc") {
		filter.SortDescending = false
	}

	var (
		scoped   bool
		folderID *int64
	)
	switch raw := q.Get("folder"); raw {
	case "":
	case "none":
		scoped = true
	default:
		id, err := parseID(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		scoped, folderID = true, &id
	}

	docs, err := s.lib.List(r.Context(), scoped, folderID, filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleRecentDocuments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docs, err := s.lib.Recent(r.Context(), limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.lib.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleDocumentFile serves GET /documents/{id}/file: the primary file of
// the document, which is the first page for image documents.
func (s *Server) handleDocumentFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.lib.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	f, err := os.Open(doc.Path)
	if err != nil {
		s.logger.Warn("document file missing", zap.Int64("document_id", id), zap.String("path", doc.Path), zap.Error(err))
		writeError(w, http.StatusNotFound, "document file is missing")
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		s.fail(w, r, err)
		return
	}

	contentType := doc.Type.MIME()
	if doc.Type == types.TypeImage {
		if byExt := mime.TypeByExtension(filepath.Ext(doc.Path)); byExt != "" {
			contentType = byExt
		}
	}
	w.Header().Set("Content-Type", contentType)
	http.ServeContent(w, r, filepath.Base(doc.Path), info.ModTime(), f)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleRenameDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req renameRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.lib.Rename(r.Context(), id, req.Title)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.lib.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignRequest struct {
	DocumentIDs []int64 `json:"document_ids"`
	// FolderID null unfiles the documents
	FolderID *int64 `json:"folder_id"`
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.lib.Assign(r.Context(), req.DocumentIDs, req.FolderID); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type convertRequest struct {
	To      string `json:"to"`
	Replace bool   `json:"replace"`
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req convertRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target, err := types.ParseScanTypeStrict(req.To)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.lib.Convert(r.Context(), id, target, req.Replace)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

type editRequest struct {
	Rotation   float64  `json:"rotation"`
	Crop       string   `json:"crop"`
	Brightness float64  `json:"brightness"`
	Contrast   *float64 `json:"contrast"`
	Mode       string   `json:"mode"`
}

func (r editRequest) edits() (imaging.Edits, error) {
	e := imaging.NoEdits()
	e.Rotation = r.Rotation
	e.Brightness = r.Brightness
	if r.Contrast != nil {
		e.Contrast = *r.Contrast
	}
	crop, err := imaging.ParseCropRect(r.Crop)
	if err != nil {
		return e, err
	}
	e.Crop = crop
	if r.Mode != "" {
		mode, err := imaging.ParseColorMode(r.Mode)
		if err != nil {
			return e, err
		}
		e.Mode = mode
	}
	return e, nil
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req editRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	edits, err := req.edits()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.lib.EditDocument(r.Context(), id, edits)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}
