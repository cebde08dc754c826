package events

import "sync"

// Handler receives broadcast events for a subscribed tag.
type Handler func(ev *Normalized)

// Emitter is a per-handle observer registry. Each handle owns exactly one
// Emitter; there is no shared or global bus.
type Emitter struct {
	mu   sync.RWMutex
	next int
	subs map[Tag]map[int]Handler
}

// NewEmitter returns an empty observer registry.
func NewEmitter() *Emitter {
	return &Emitter{subs: make(map[Tag]map[int]Handler)}
}

// Subscription cancels a single subscription. Cancel is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Subscribe registers a handler for the given tag and returns its
// cancellation handle. A nil handler is ignored and yields an inert
// subscription.
func (e *Emitter) Subscribe(tag Tag, fn Handler) *Subscription {
	if fn == nil {
		return &Subscription{cancel: func() {}}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.subs[tag] == nil {
		e.subs[tag] = make(map[int]Handler)
	}
	id := e.next
	e.next++
	e.subs[tag][id] = fn

	return &Subscription{cancel: func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.subs[tag], id)
	}}
}

// Emit broadcasts the event to every subscriber of its tag. Handlers run
// synchronously in the dispatching goroutine, preserving transport delivery
// order.
func (e *Emitter) Emit(ev *Normalized) {
	if ev == nil {
		return
	}

	e.mu.RLock()
	handlers := make([]Handler, 0, len(e.subs[ev.Tag]))
	for _, fn := range e.subs[ev.Tag] {
		handlers = append(handlers, fn)
	}
	e.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// SubscriberCount reports how many handlers are registered for a tag.
func (e *Emitter) SubscriberCount(tag Tag) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subs[tag])
}
