package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dd0wney/cluso-rdfgraph/pkg/logging"
)

// handleEvents streams a ViewResponse as a server-sent event each time the
// dataset is loaded or its selection changes
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	sub, err := s.dataset.Subscribe(r.Context())
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	defer sub.Unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, open := <-sub.C():
			if !open {
				return
			}
			data, err := json.Marshal(viewResponse(msg.Payload))
			if err != nil {
				s.logger.Warn("failed to encode event", logging.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Topic, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
