package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/orderkit/orderkit/pkg/logger"
)

// connectionBuffer is how many frames a slow subscriber may fall behind
// before it is treated as dead and dropped.
const connectionBuffer = 16

// Connection is one subscriber's end of a scope's stream. Frames arrive on
// Events already in wire format; the transport handler only writes and
// flushes them.
type Connection struct {
	ID     string
	Scope  Scope
	Events <-chan []byte

	events chan []byte
}

// Broadcaster maintains in-process subscriber registries per scope and
// fans serialized events out to them. Registries live in process memory;
// multi-instance deployments pin each scope's subscribers to one instance
// or replace this with a shared bus.
type Broadcaster struct {
	mu    sync.RWMutex
	conns map[Scope]map[string]*Connection
	log   *slog.Logger
}

// BroadcasterOption configures a Broadcaster.
type BroadcasterOption func(*Broadcaster)

// WithBroadcasterLogger sets the logger used for subscriber lifecycle events.
func WithBroadcasterLogger(log *slog.Logger) BroadcasterOption {
	return func(b *Broadcaster) {
		if log != nil {
			b.log = log
		}
	}
}

func NewBroadcaster(opts ...BroadcasterOption) *Broadcaster {
	b := &Broadcaster{
		conns: make(map[Scope]map[string]*Connection),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a new connection on the scope and queues the initial
// connected handshake frame. The caller must call Unsubscribe when its
// transport closes.
func (b *Broadcaster) Subscribe(ctx context.Context, scope Scope) (*Connection, error) {
	frame, err := encodeFrame(Connected())
	if err != nil {
		return nil, fmt.Errorf("encode handshake: %w", err)
	}

	events := make(chan []byte, connectionBuffer)
	conn := &Connection{
		ID:     uuid.NewString(),
		Scope:  scope,
		Events: events,
		events: events,
	}
	conn.events <- frame

	b.mu.Lock()
	scoped, ok := b.conns[scope]
	if !ok {
		scoped = make(map[string]*Connection)
		b.conns[scope] = scoped
	}
	scoped[conn.ID] = conn
	b.mu.Unlock()

	b.log.LogAttrs(ctx, slog.LevelDebug, "SSE subscriber connected",
		slog.String("connection_id", conn.ID),
		slog.String("scope", string(scope)),
	)
	return conn, nil
}

// Unsubscribe removes the connection from its scope's registry and closes
// its event channel. Safe to call for an already-removed connection.
func (b *Broadcaster) Unsubscribe(conn *Connection) {
	b.mu.Lock()
	removed := b.removeLocked(conn)
	b.mu.Unlock()

	if removed {
		close(conn.events)
	}
}

// Broadcast serializes the event once and delivers it to every connection
// currently subscribed to the scope. Connections that cannot accept the
// frame are removed inline; a scope with no subscribers is a no-op. Failures
// never propagate to the caller.
func (b *Broadcaster) Broadcast(ctx context.Context, scope Scope, event Event) {
	frame, err := encodeFrame(event)
	if err != nil {
		b.log.LogAttrs(ctx, slog.LevelError, "Failed to encode SSE event",
			slog.String("scope", string(scope)),
			slog.String("event_type", string(event.Type)),
			logger.Error(err),
		)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, conn := range b.conns[scope] {
		select {
		case conn.events <- frame:
		default:
			// Subscriber stopped draining: treat as dead.
			b.removeLocked(conn)
			close(conn.events)
			b.log.LogAttrs(ctx, slog.LevelDebug, "Dropped stalled SSE subscriber",
				slog.String("connection_id", conn.ID),
				slog.String("scope", string(scope)),
			)
		}
	}
}

// SubscriberCount reports the number of live connections on a scope.
func (b *Broadcaster) SubscriberCount(scope Scope) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns[scope])
}

func (b *Broadcaster) removeLocked(conn *Connection) bool {
	scoped, ok := b.conns[conn.Scope]
	if !ok {
		return false
	}
	if _, ok := scoped[conn.ID]; !ok {
		return false
	}
	delete(scoped, conn.ID)
	if len(scoped) == 0 {
		delete(b.conns, conn.Scope)
	}
	return true
}

// encodeFrame renders an event in SSE wire format: a data line with the
// JSON payload followed by the blank line that terminates the message.
func encodeFrame(event Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	frame := make([]byte, 0, len(payload)+8)
	frame = append(frame, "data: "...)
	frame = append(frame, payload...)
	frame = append(frame, "\n\n"...)
	return frame, nil
}
