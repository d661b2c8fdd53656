// Package events provides the in-process event bus used to push system
// events to dashboard clients over SSE and websocket streams.
package events

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EventType identifies a category of system event.
type EventType string

const (
	// SnapshotRecorded fires after a sovereignty snapshot is persisted.
	SnapshotRecorded EventType = "snapshot_recorded"
	// BadgesUnlocked fires when a wallet earns badges it had not seen before.
	BadgesUnlocked EventType = "badges_unlocked"
	// BackupCompleted fires after a database backup finishes uploading.
	BackupCompleted EventType = "backup_completed"
)

// Event is a single published event with its payload.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      EventData `json:"data"`
}

// Bus is a fan-out publish/subscribe hub. Subscribers receive events on
// buffered channels; slow subscribers drop events rather than block
// publishers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
	log         zerolog.Logger
}

// NewBus creates an event bus.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		subscribers: make(map[int]chan Event),
		log:         log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe registers a new subscriber and returns its channel along with
// an unsubscribe function. The unsubscribe function is idempotent.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, 32)
	b.subscribers[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}
	return ch, unsubscribe
}

// Publish delivers an event to all current subscribers. Delivery is
// best-effort: a subscriber with a full buffer misses the event.
func (b *Bus) Publish(data EventData) {
	event := Event{
		Type:      data.EventType(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.log.Warn().
				Int("subscriber", id).
				Str("event", string(event.Type)).
				Msg("Subscriber buffer full, dropping event")
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
