package events

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/codeWhizperer/TBA/logx"
)

type SubscriberID string

type Subscriber struct {
	ID      SubscriberID
	Channel chan AccountEvent
}

type EventBus struct {
	subscribers map[SubscriberID]*Subscriber
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[SubscriberID]*Subscriber),
	}
}

func (eb *EventBus) generateUUIDID() SubscriberID {
	id := uuid.Must(uuid.NewV7())
	return SubscriberID(id.String())
}

func (eb *EventBus) Subscribe() (SubscriberID, chan AccountEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	id := eb.generateUUIDID()

	ch := make(chan AccountEvent, 50) // Buffer for events
	subscriber := &Subscriber{
		ID:      id,
		Channel: ch,
	}

	eb.subscribers[id] = subscriber

	logx.Info("EVENTBUS", fmt.Sprintf("Client subscribed to account events | subscriber_id=%s | total_subscribers=%d", id, len(eb.subscribers)))

	return id, ch
}

// Unsubscribe removes a subscription by ID
func (eb *EventBus) Unsubscribe(id SubscriberID) bool {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subscriber, exists := eb.subscribers[id]
	if !exists {
		logx.Warn("EVENTBUS", fmt.Sprintf("Attempted to unsubscribe non-existent subscriber | subscriber_id=%s", id))
		return false
	}

	delete(eb.subscribers, id)
	close(subscriber.Channel)

	logx.Info("EVENTBUS", fmt.Sprintf("Client unsubscribed from events | subscriber_id=%s | remaining_subscribers=%d", id, len(eb.subscribers)))
	return true
}

// Publish publishes an event to all subscribers
func (eb *EventBus) Publish(event AccountEvent) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	if len(eb.subscribers) == 0 {
		return
	}

	logx.Debug("EVENTBUS", fmt.Sprintf("Publishing event | event_type=%s | account=%s | subscribers=%d", event.Type(), event.Account(), len(eb.subscribers)))

	for id, subscriber := range eb.subscribers {
		select {
		case subscriber.Channel <- event:
			// Event sent successfully
		default:
			// Channel is full, skip this subscriber
			logx.Warn("EVENTBUS", fmt.Sprintf("Subscriber channel full | subscriber_id=%s | account=%s", id, event.Account()))
		}
	}
}

// GetTotalSubscriptions returns the total number of active subscriptions
func (eb *EventBus) GetTotalSubscriptions() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}
