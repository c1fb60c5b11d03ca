package store

import (
	"sync"

	"github.com/google/uuid"
)

// emitter fans out update notifications to subscribers. Each subscriber
// owns a buffered channel holding at most one pending signal, so a burst
// of synchronous state changes coalesces into a single wakeup instead of
// one re-render per field mutation.
type emitter struct {
	mu   sync.Mutex
	subs map[string]chan struct{}
}

func newEmitter() *emitter {
	return &emitter{subs: make(map[string]chan struct{})}
}

// subscribe registers a new subscriber and returns its token and channel.
func (e *emitter) subscribe() (string, <-chan struct{}) {
	e.mu.Lock()
	defer e.mu.Unlock()

	token := uuid.NewString()
	ch := make(chan struct{}, 1)
	e.subs[token] = ch
	return token, ch
}

// unsubscribe removes a subscriber. Unknown tokens are a no-op.
func (e *emitter) unsubscribe(token string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subs, token)
}

// notify signals every subscriber without blocking. A subscriber with a
// signal already pending receives nothing extra; it will observe the
// latest snapshot when it wakes.
func (e *emitter) notify() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, ch := range e.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
