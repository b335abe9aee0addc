// Package stream subscribes to the backend's WebSocket event channel and
// dispatches already-typed push events (audit entries, goal and task
// updates) to registered handlers.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/hyperengineering/steward/internal/types"
)

// Event names pushed by the backend.
const (
	EventAuditNew    = "audit:new"
	EventGoalUpdated = "goal:updated"
	EventTaskUpdated = "task:updated"
)

// AuditEvent is the payload of an audit:new push: the new entry plus its
// owning profile, so subscribers can decide whether it belongs in their
// currently displayed view.
type AuditEvent struct {
	AgenticID string           `json:"agenticId"`
	Entry     types.AuditEntry `json:"entry"`
}

// frame is the wire shape of one pushed event.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Handler receives the raw payload of one event occurrence.
type Handler func(payload json.RawMessage)

// Subscriber maintains a WebSocket connection to the backend and fans
// events out to handlers. Reconnects automatically with capped exponential
// backoff.
type Subscriber struct {
	url    string
	token  string
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
}

// New creates a Subscriber for the backend at baseURL (the same http(s) URL
// the REST client uses; the scheme is rewritten for the socket).
func New(baseURL, token string, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{
		url:      wsURL(baseURL),
		token:    token,
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

func wsURL(baseURL string) string {
	u := strings.TrimRight(baseURL, "/")
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u + "/agentic/ws"
}

// Subscribe registers a handler for the named event. Safe to call before or
// after Run starts.
func (s *Subscriber) Subscribe(event string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[event] = append(s.handlers[event], h)
}

// SubscribeAudit registers a typed handler for audit:new pushes. Malformed
// payloads are logged and dropped.
func (s *Subscriber) SubscribeAudit(fn func(AuditEvent)) {
	s.Subscribe(EventAuditNew, func(payload json.RawMessage) {
		var ev AuditEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			s.logger.Warn("malformed audit event",
				"component", "stream",
				"error", err,
			)
			return
		}
		fn(ev)
	})
}

// Run connects and dispatches events until ctx is cancelled. It blocks; run
// it in a goroutine.
func (s *Subscriber) Run(ctx context.Context) {
	s.logger.Info("stream subscriber started",
		"component", "stream",
		"url", s.url,
	)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			s.logger.Info("stream subscriber stopped",
				"component", "stream",
				"reason", "context_cancelled",
			)
			return
		}

		healthy, err := s.readLoop(ctx)
		if ctx.Err() != nil {
			continue
		}
		if healthy {
			// A connection that delivered frames was not part of the
			// current failure streak; start the backoff over.
			backoff = time.Second
		}

		s.logger.Warn("stream connection lost",
			"component", "stream",
			"error", err,
			"retry_in", backoff.String(),
		)

		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

// readLoop connects once and reads frames until the connection drops or ctx
// is cancelled. healthy reports whether at least one frame arrived.
func (s *Subscriber) readLoop(ctx context.Context) (healthy bool, err error) {
	header := http.Header{}
	if s.token != "" {
		header.Set("Authorization", "Bearer "+s.token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return false, err
	}
	defer conn.Close()

	// Close the socket when ctx is cancelled so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			return healthy, err
		}
		healthy = true
		s.dispatch(f)
	}
}

func (s *Subscriber) dispatch(f frame) {
	s.mu.Lock()
	handlers := append([]Handler(nil), s.handlers[f.Event]...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(f.Payload)
	}
}
