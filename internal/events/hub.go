// Package events fans "something changed" notifications out to observers
// such as websocket clients.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/puzzlequest/internal/logger"
)

type Type string

const (
	// StatsChanged follows every successful write of progress or stats.
	StatsChanged Type = "stats_changed"
	// ProfileCleared follows logout.
	ProfileCleared Type = "profile_cleared"
)

type Event struct {
	ID     uuid.UUID `json:"id"`
	Type   Type      `json:"type"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
	Data   any       `json:"data,omitempty"`
}

type Subscription struct {
	ID uuid.UUID
	C  <-chan Event
	ch chan Event
}

// Hub delivers events to every subscriber without ever blocking the
// publisher: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]*Subscription
	buffer int
	log    *logger.Logger
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[uuid.UUID]*Subscription),
		buffer: buffer,
		log:    logger.Default().WithPrefix("events"),
	}
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{ID: uuid.New(), C: ch, ch: ch}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	n := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("subscriber %s added (%d total)", sub.ID, n)
	return sub
}

// Unsubscribe removes sub and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	close(sub.ch)
	h.log.Debug("subscriber %s removed (%d left)", sub.ID, len(h.subs))
}

func (h *Hub) Publish(ctx context.Context, e Event) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, sub := range h.subs {
		select {
		case sub.ch <- e:
		default:
			logger.FromContext(ctx).WithPrefix("events").Warn("dropping %s for subscriber %s: buffer full", e.Type, id)
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
