// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package chooser

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/random-chooser/models"
)

// Hub fans events out to subscribers. Publish never blocks: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan models.Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]chan models.Event)}
}

// Subscribe registers a listener with the given buffer size
func (h *Hub) Subscribe(buffer int) (uint64, <-chan models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	ch := make(chan models.Event, buffer)
	h.subs[h.nextID] = ch
	return h.nextID, ch
}

// Unsubscribe removes the listener and closes its channel
func (h *Hub) Unsubscribe(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) Publish(ev models.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("event dropped for slow subscriber", "subscriber", id, "type", ev.Type)
		}
	}
}

// Subscribers returns the number of active listeners
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
