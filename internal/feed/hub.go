package feed

import (
	"sync"

	"github.com/safelive/backend/pkg/logger"
)

// Event is a live-feed message pushed to dashboard clients.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

const (
	EventNewIncident   = "NEW_INCIDENT"
	EventTicketUpdated = "TICKET_UPDATED"
)

// Hub fans events out to websocket subscribers with at-most-once
// semantics: a subscriber whose buffer is full simply misses the event.
// Clients reconcile by periodic refetch.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered event channel. The caller must call the
// returned cancel func when done.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber that has buffer room. Slow
// consumers are skipped, never blocked on.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			logger.WithComponent("feed").Debug("dropping event for slow subscriber")
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
