package api

import (
	"net/http"

	"github.com/Resaura/NeonScan-v2/internal/types"
)

func (s *Server) handleListFolders(w http.ResponseWriter, r *http.Request) {
	folders, err := s.lib.Folders(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}

type folderRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req folderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	folder, err := s.lib.CreateFolder(r.Context(), req.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Color != "" {
		folder, err = s.lib.UpdateFolder(r.Context(), folder.ID, folder.Name, req.Color)
		if err != nil {
			s.fail(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, folder)
}

type folderResponse struct {
	*types.Folder
	Documents []*types.ScanDocument `json:"documents"`
}

func (s *Server) handleGetFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	folder, err := s.lib.Folder(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	docs, err := s.lib.ByFolder(r.Context(), &id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folderResponse{Folder: folder, Documents: docs})
}

func (s *Server) handleUpdateFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req folderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	folder, err := s.lib.UpdateFolder(r.Context(), id, req.Name, req.Color)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folder)
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.lib.DeleteFolder(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	FolderIDs []int64 `json:"folder_ids"`
}

func (s *Server) handleReorderFolders(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	folders, err := s.lib.ReorderFolders(r.Context(), req.FolderIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, folders)
}
