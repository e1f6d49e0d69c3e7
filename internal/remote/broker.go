package remote

import (
	"context"
	"sync"
)

// Broker carries ChangeEvents from writers to subscribers.
type Broker interface {
	Publish(ctx context.Context, ev ChangeEvent) error
	Subscribe(handler func(ChangeEvent)) (unsubscribe func())
	Close() error
}

// LocalBroker fans events out to in-process subscribers. Handlers run on the
// publisher's goroutine and must not block.
type LocalBroker struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]func(ChangeEvent)
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{handlers: make(map[int]func(ChangeEvent))}
}

func (b *LocalBroker) Publish(_ context.Context, ev ChangeEvent) error {
	b.mu.RLock()
	handlers := make([]func(ChangeEvent), 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *LocalBroker) Subscribe(handler func(ChangeEvent)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.handlers, id)
			b.mu.Unlock()
		})
	}
}

func (b *LocalBroker) Close() error {
	b.mu.Lock()
	b.handlers = make(map[int]func(ChangeEvent))
	b.mu.Unlock()
	return nil
}
