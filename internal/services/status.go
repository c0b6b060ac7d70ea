// Node status channel
//
// The node pushes {"type": "update", "data": "..."} frames over a WebSocket.
// Nothing in the client depends on their payloads; they are logged and surfaced as text.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// StatusMessage is a single frame received on the status channel.
type StatusMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
	Raw  string          `json:"-"`
}

// Text returns the payload as display text, unquoting string payloads.
func (m StatusMessage) Text() string {
	var s string
	if err := json.Unmarshal(m.Data, &s); err == nil {
		return s
	}
	if len(m.Data) > 0 {
		return string(m.Data)
	}
	return m.Raw
}

// StatusChannel listens to the node's WebSocket notifications.
type StatusChannel struct {
	url    string
	dialer *websocket.Dialer
	header http.Header
	logger *log.Logger
}

// NewStatusChannel creates a status channel for url (ws:// or wss://).
func NewStatusChannel(url string, logger *log.Logger) *StatusChannel {
	return &StatusChannel{
		url:    url,
		dialer: websocket.DefaultDialer,
		header: http.Header{},
		logger: logger,
	}
}

// Listen connects and forwards frames to out until ctx is done or the connection drops.
//
// Sends to out never block; frames are dropped when out is full. Unparseable frames are logged and skipped.
// Returns nil when ctx ends the session.
func (s *StatusChannel) Listen(ctx context.Context, out chan<- StatusMessage) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		return fmt.Errorf("failed to connect status channel: %w", err)
	}
	s.logger.Info("connected to status channel", "url", s.url)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
			conn.Close()
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) {
				return fmt.Errorf("status channel closed: %w", err)
			}
			return fmt.Errorf("status channel read failed: %w", err)
		}

		msg := StatusMessage{Raw: string(data)}
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Error("error parsing status message", "error", err)
			continue
		}
		s.logger.Debug("status message", "type", msg.Type, "data", msg.Text())

		select {
		case out <- msg:
		default:
			s.logger.Warn("status buffer full, dropping message", "type", msg.Type)
		}
	}
}
