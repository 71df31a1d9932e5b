// Package stream implements the live push channel over WebSocket. One
// connection per admin view, no reconnection: when the socket drops, live
// updates stop until the view remounts.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/civiclens/portal-client/internal/core/domain"
	"github.com/civiclens/portal-client/internal/core/ports"
	"github.com/civiclens/portal-client/internal/metrics"
)

const eventBuffer = 256

// Dialer opens the admin push channel at <base>/ws/admin.
type Dialer struct {
	baseURL string // ws:// or wss://
	log     zerolog.Logger
}

var _ ports.StreamDialer = (*Dialer)(nil)

func NewDialer(baseURL string, log zerolog.Logger) *Dialer {
	return &Dialer{baseURL: baseURL, log: log}
}

// Dial connects with the bearer token as a query parameter (the portal's
// websocket handshake does not read headers) and starts the reader.
func (d *Dialer) Dial(ctx context.Context, token string) (ports.EventStream, error) {
	url := d.baseURL + "/ws/admin?token=" + token
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil && (resp.StatusCode == 401 || resp.StatusCode == 403) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	s := &Stream{
		conn:   conn,
		events: make(chan domain.LiveEvent, eventBuffer),
		log:    d.log,
	}
	go s.readLoop()
	d.log.Debug().Msg("event stream connected")
	return s, nil
}

// Stream is one open push connection. The events channel closes when the
// connection ends, however it ends.
type Stream struct {
	conn      *websocket.Conn
	events    chan domain.LiveEvent
	log       zerolog.Logger
	closeOnce sync.Once
}

func (s *Stream) Events() <-chan domain.LiveEvent {
	return s.events
}

// Close tears the connection down. Safe to call more than once and safe to
// race with the reader.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = s.conn.Close()
	})
	return err
}

// readLoop decodes frames onto the events channel. Malformed frames and
// unknown event types are counted and skipped, never fatal; a read error
// ends the stream silently.
func (s *Stream) readLoop() {
	defer close(s.events)
	defer metrics.StreamDisconnectsTotal.Inc()

	for {
		_, frame, err := s.conn.ReadMessage()
		if err != nil {
			s.log.Debug().Err(err).Msg("event stream closed")
			return
		}

		var ev domain.LiveEvent
		if err := json.Unmarshal(frame, &ev); err != nil {
			metrics.StreamFramesTotal.WithLabelValues("decode_error").Inc()
			s.log.Warn().Err(err).Msg("skipping malformed event frame")
			continue
		}
		if !domain.KnownEventType(ev.Type) {
			metrics.StreamFramesTotal.WithLabelValues("unknown_type").Inc()
			s.log.Warn().Str("type", string(ev.Type)).Msg("skipping unknown event type")
			continue
		}

		metrics.StreamFramesTotal.WithLabelValues("ok").Inc()
		s.events <- ev
	}
}
