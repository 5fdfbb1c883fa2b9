// Package live streams match lifecycle events to websocket clients.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/scrimnight/scrimnight/internal/match"
)

// Event types sent to clients.
const (
	EventMatchCreated  = "MATCH_CREATED"
	EventMatchResolved = "MATCH_RESOLVED"
)

// Event is the message written to every connected client.
type Event struct {
	Type    string       `json:"type"`
	Payload MatchPayload `json:"payload"`
	SentAt  time.Time    `json:"sentAt"`
}

// MatchPayload summarises the match an event refers to. Clients fetch the
// full roster from the REST API.
type MatchPayload struct {
	ID         uuid.UUID  `json:"id"`
	Outcome    string     `json:"outcome"`
	PlayedAt   time.Time  `json:"playedAt"`
	Info       *string    `json:"info"`
	ResolvedAt *time.Time `json:"resolvedAt"`
}

const (
	clientBuffer    = 256
	broadcastBuffer = 64
)

// Hub fans events out to connected clients. All client bookkeeping happens
// on the goroutine running Run.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
	done       chan struct{}
	count      atomic.Int64
	origins    []string
}

// NewHub creates a Hub. Origins lists the values accepted in the Origin
// header of upgrade requests; "*" accepts any.
func NewHub(origins []string) *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, broadcastBuffer),
		done:       make(chan struct{}),
		origins:    origins,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	slog.Info("live hub started")
	defer slog.Info("live hub stopped")

	for {
		select {
		case <-ctx.Done():
			close(h.done)
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Add(1)
			slog.Debug("live client connected", "remote", c.conn.RemoteAddr().String(), "clients", len(h.clients))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				slog.Debug("live client disconnected", "clients", len(h.clients))
			}

		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					slog.Warn("live client too slow, disconnecting", "remote", c.conn.RemoteAddr().String())
					h.drop(c)
				}
			}
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}

// Publish queues an event for every connected client. Events are dropped
// when the hub is stopped or its queue is full.
func (h *Hub) Publish(eventType string, m *match.Match) {
	ev := Event{
		Type: eventType,
		Payload: MatchPayload{
			ID:         m.ID,
			Outcome:    string(m.Outcome),
			PlayedAt:   m.PlayedAt,
			Info:       m.Info,
			ResolvedAt: m.ResolvedAt,
		},
		SentAt: time.Now().UTC(),
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode live event", "type", eventType, "error", err)
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- msg:
	default:
		slog.Warn("live event queue full, dropping event", "type", eventType, "matchId", m.ID)
	}
}

// MatchCreated implements match.Observer.
func (h *Hub) MatchCreated(m *match.Match) { h.Publish(EventMatchCreated, m) }

// MatchResolved implements match.Observer.
func (h *Hub) MatchResolved(m *match.Match) { h.Publish(EventMatchResolved, m) }

// ResolveRejected implements match.Observer. Rejections are not streamed.
func (h *Hub) ResolveRejected(uuid.UUID, error) {}

func (h *Hub) drop(c *client) {
	delete(h.clients, c)
	close(c.send)
	h.count.Add(-1)
}
