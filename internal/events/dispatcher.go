package events

import (
	"sync"

	"go.uber.org/zap"
)

// Listener reacts to a published event. Listeners must tolerate redundant
// notifications; nothing is deduplicated.
type Listener func(Event)

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(event Event)
	Subscribe(listener Listener) (unsubscribe func())
}

type subscription struct {
	id       uint64
	listener Listener
}

// inMemoryDispatcher is a simple synchronous dispatcher.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners []subscription
	logger    *zap.Logger
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{logger: logger}
}

// Publish synchronously invokes the listeners registered at the moment of the call,
// in registration order. Late subscribers do not see earlier events.
func (d *inMemoryDispatcher) Publish(event Event) {
	d.mu.RLock()
	subs := append([]subscription{}, d.listeners...)
	d.mu.RUnlock()

	for _, sub := range subs {
		d.deliver(sub, event)
	}
}

func (d *inMemoryDispatcher) deliver(sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event listener panicked",
				zap.Uint64("listener", sub.id),
				zap.String("event_type", string(event.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	sub.listener(event)
}

// Subscribe registers a listener and returns a func that removes it.
// Calling the returned func more than once is harmless.
func (d *inMemoryDispatcher) Subscribe(listener Listener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, subscription{id: id, listener: listener})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, sub := range d.listeners {
			if sub.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}
