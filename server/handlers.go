package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// ThroughputEvent is the event name of every push.
const ThroughputEvent = "throughput"

// handleHit counts the request. Nothing is read from it.
func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	s.counter.Increment()
	if s.metrics != nil {
		s.metrics.ObserveHit()
	}
	w.WriteHeader(http.StatusOK)
}

// handlePush sends the current count as a single event and ends the
// response. The connection is not kept open for later updates.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	data := strconv.FormatInt(s.counter.Read(), 10)
	err := sendEvent(w, flusher, r, uuid.NewString(), ThroughputEvent, data)

	if s.metrics != nil {
		s.metrics.ObservePush(err)
	}
	if err != nil {
		log.Printf("Error pushing throughput to %s: %v", r.RemoteAddr, err)
	}
}

// sendEvent writes one event and flushes it to the observer.
func sendEvent(w http.ResponseWriter, flusher http.Flusher, r *http.Request, id, event, data string) error {
	if err := r.Context().Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", id, event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
