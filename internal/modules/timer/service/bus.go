package service

import (
	"sync"

	"pomo/internal/modules/timer/domain"
)

// Bus fans engine events out to subscribers. Delivery is fire and
// forget: a subscriber whose buffer is full loses the event rather than
// blocking the publisher.
type Bus struct {
	mu   sync.Mutex
	subs []chan domain.Event
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe(buffer int) <-chan domain.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan domain.Event, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers events in order to every subscriber and returns the
// number of dropped deliveries.
func (b *Bus) Publish(events ...domain.Event) int {
	b.mu.Lock()
	subs := append([]chan domain.Event(nil), b.subs...)
	b.mu.Unlock()

	dropped := 0
	for _, event := range events {
		for _, ch := range subs {
			select {
			case ch <- event:
			default:
				dropped++
			}
		}
	}
	return dropped
}

func (b *Bus) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
}
