package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub()

	ch1, cancel1 := hub.Subscribe()
	ch2, cancel2 := hub.Subscribe()
	defer cancel1()
	defer cancel2()

	assert.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(Event{Type: EventNewIncident, Data: "payload"})

	ev1 := <-ch1
	ev2 := <-ch2
	assert.Equal(t, EventNewIncident, ev1.Type)
	assert.Equal(t, EventNewIncident, ev2.Type)
}

func TestHub_SlowSubscriberIsSkippedNotBlocked(t *testing.T) {
	hub := NewHub()

	slow, cancel := hub.Subscribe()
	defer cancel()

	// Fill the buffer and then some; Publish must never block.
	for i := 0; i < 100; i++ {
		hub.Publish(Event{Type: EventTicketUpdated, Data: i})
	}

	received := 0
	for {
		select {
		case <-slow:
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, 32, received)
}

func TestHub_CancelIsIdempotent(t *testing.T) {
	hub := NewHub()

	ch, cancel := hub.Subscribe()
	cancel()
	cancel()

	assert.Equal(t, 0, hub.SubscriberCount())

	// Publishing after cancel must not panic on the closed channel.
	hub.Publish(Event{Type: EventNewIncident})

	_, open := <-ch
	assert.False(t, open)
}
