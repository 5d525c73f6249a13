package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	eventBuffer       = 64
	eventsKeepalive   = 30 * time.Second
	eventsContentType = "text/event-stream"
)

// streamEvents relays bus events as server-sent events until the client
// disconnects or the bus closes.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)

	ch := s.deps.Events.SubscribeAll(eventBuffer)
	defer s.deps.Events.Unsubscribe(ch)

	w.Header().Set("Content-Type", eventsContentType)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.log.Debug("events stream not flushable", "error", err)
		return
	}

	ticker := time.NewTicker(eventsKeepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
		case e, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.log.Error("encode event", "type", e.EventType(), "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.EventType(), data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
