package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/cluso-habitat/pkg/logging"
	"github.com/dd0wney/cluso-habitat/pkg/pubsub"
)

// keepAliveInterval spaces SSE comment lines on an idle stream.
const keepAliveInterval = 15 * time.Second

// handleEvents streams engine events as server-sent events. The topic
// query parameter picks building.updated (default) or building.evaluated.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	switch topic {
	case "":
		topic = pubsub.TopicBuildingUpdated
	case pubsub.TopicBuildingUpdated, pubsub.TopicEvaluated:
	default:
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown topic %q", topic))
		return
	}

	rc := http.NewResponseController(w)
	sub, err := s.engine.Events().Subscribe(r.Context(), topic)
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Warn("event stream cannot flush", logging.Error(err))
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			rc.Flush()
		case ev, ok := <-sub.Channel():
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Warn("failed to encode event", logging.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
			rc.Flush()
		}
	}
}
