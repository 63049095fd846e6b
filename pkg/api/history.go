package api

import (
	"net/http"
	"strconv"

	"github.com/dd0wney/cluso-habitat/pkg/audit"
	"github.com/dd0wney/cluso-habitat/pkg/logging"
)

// handleHistory lists recorded building changes, oldest first. Query:
// action filters by event kind, limit keeps the newest n, format is json,
// jsonl or csv.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		s.respondError(w, http.StatusNotFound, "history disabled")
		return
	}

	q := r.URL.Query()
	format, err := audit.ParseFormat(q.Get("format"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	events := s.history.GetEvents(&audit.Filter{Action: audit.Action(q.Get("action"))})
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}

	w.Header().Set("Content-Type", format.ContentType())
	if err := audit.Export(w, events, format); err != nil {
		s.logger.Warn("failed to export history", logging.Error(err))
	}
}
