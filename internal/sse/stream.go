package sse

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
)

// Time allowed to write a message to the peer
const writeWait = 10 * time.Second

// ErrUnsupported is returned when the writer cannot stream
var ErrUnsupported = errors.New("streaming unsupported")

// Stream writes server-sent events to one client
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
}

// Open sets the event-stream headers and sends the connected event.
// The server write timeout is lifted; each message sets its own deadline.
func Open(w http.ResponseWriter) (*Stream, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrUnsupported
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
	w.WriteHeader(http.StatusOK)

	s := &Stream{w: w, flusher: flusher, rc: http.NewResponseController(w)}
	if err := s.Send("connected", `{"status":"connected"}`); err != nil {
		return nil, err
	}
	return s, nil
}

// Send writes one event
func (s *Stream) Send(event, data string) error {
	// Recorders and some proxies cannot set deadlines
	_ = s.rc.SetWriteDeadline(time.Now().Add(writeWait))

	if _, err := s.w.Write(FormatMessage(event, data)); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// SendJSON writes one event with a JSON payload
func (s *Stream) SendJSON(event string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Send(event, string(b))
}

// Keepalive writes a comment line so idle proxies keep the connection
func (s *Stream) Keepalive() error {
	_ = s.rc.SetWriteDeadline(time.Now().Add(writeWait))
	if _, err := s.w.Write([]byte(": keepalive\n\n")); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// FormatMessage formats an SSE message with event name and data.
// Each line of multi-line data gets its own "data: " prefix.
func FormatMessage(event, data string) []byte {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(event)
	b.WriteString("\n")
	for _, line := range splitLines(data) {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, dropping carriage returns
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
