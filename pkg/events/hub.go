package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// DefaultBuffer is the per-subscriber queue length used when NewEventHub is
// given a non-positive size.
const DefaultBuffer = 16

// EventHub fans events out to subscribers. A subscriber whose queue is full
// misses the event; Publish never blocks.
type EventHub struct {
	buffer int

	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventHub returns a hub queueing up to buffer events per subscriber.
func NewEventHub(buffer int) *EventHub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &EventHub{
		buffer: buffer,
		subs:   make(map[chan Event]struct{}),
	}
}

// Subscribe registers a new subscriber. Release it with Unsubscribe.
func (h *EventHub) Subscribe() chan Event {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch
}

func (h *EventHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of active subscriptions.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Publish sends payload, encoded as JSON, to every subscriber with room for it.
func (h *EventHub) Publish(name string, payload any) {
	if h == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		logrus.Errorf("failed to marshal %s event: %v", name, err)
		return
	}
	msg := Event{Name: name, Data: b}
	h.mu.RLock()
	for ch := range h.subs {
		select {
		case ch <- msg:
		default:
			logrus.WithField("event", name).Debug("dropping event for slow subscriber")
		}
	}
	h.mu.RUnlock()
}
