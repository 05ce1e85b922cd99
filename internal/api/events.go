package api

import (
	"net/http"

	"github.com/Resaura/NeonScan-v2/internal/events"
	"github.com/Resaura/NeonScan-v2/internal/types"
)

const defaultEventLimit = 50

// handleEvents serves GET /events?limit=&document=&folder=&type=.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultEventLimit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	filter := events.EventFilter{Limit: limit}

	q := r.URL.Query()
	if raw := q.Get("document"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.DocumentID = &id
	}
	if raw := q.Get("folder"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		filter.FolderID = &id
	}
	if raw := q.Get("type"); raw != "" {
		filter.Type = events.EventType(raw)
		if !filter.Type.IsValid() {
			s.fail(w, r, types.Invalidf("unknown event type %q", raw))
			return
		}
	}

	evs, err := s.lib.Activity(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, evs)
}
