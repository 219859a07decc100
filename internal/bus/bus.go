// Package bus is the in-process fan-out channel for reminder updates.
//
// Contract:
//   - Publish never blocks and never returns an error.
//   - Each subscriber owns one buffered channel, so per-subscriber delivery
//     order is publish order.
//   - A subscriber that cannot accept an event (dead or too slow to drain
//     its buffer) is pruned: removed from the set and its channel closed.
package bus

import (
	"log/slog"
	"sync"

	"github.com/callme-api/internal/domain"
)

const TypeReminderUpdate = "reminder_update"

// Event is the JSON-shaped message delivered to subscribers.
type Event struct {
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

type EventData struct {
	ID     string                `json:"id"`
	Status domain.ReminderStatus `json:"status"`
}

// ReminderUpdate builds the event published after a status transition.
func ReminderUpdate(id string, status domain.ReminderStatus) Event {
	return Event{Type: TypeReminderUpdate, Data: EventData{ID: id, Status: status}}
}

// subscriberBuffer bounds how far a subscriber may lag before it is pruned.
const subscriberBuffer = 16

// Broker tracks the live subscriber set.
type Broker struct {
	mu   sync.Mutex
	subs map[uint64]chan Event
	seq  uint64
	log  *slog.Logger
}

func NewBroker(log *slog.Logger) *Broker {
	return &Broker{subs: make(map[uint64]chan Event), log: log}
}

// Subscribe registers a new subscriber and returns its handle and receive
// channel. The channel is closed on Unsubscribe or when the subscriber is
// pruned during Publish.
func (b *Broker) Subscribe() (uint64, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	ch := make(chan Event, subscriberBuffer)
	b.subs[b.seq] = ch
	return b.seq, ch
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// more than once and safe to race with Publish.
func (b *Broker) Unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish delivers e to every current subscriber. Sends are non-blocking;
// a subscriber whose buffer is full is dropped so the rest still receive
// the event. With zero subscribers this is a no-op.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			delete(b.subs, id)
			close(ch)
			b.log.Warn("dropping slow subscriber", "subscriber_id", id)
		}
	}
}

// Len returns the current subscriber count.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
