package authprovider

import (
	"context"
	"sync"

	"impulsa-web/internal/domain/session"
)

// Bus fans auth-state events out to the listeners of a user.
type Bus interface {
	Publish(ctx context.Context, evt session.Event) error
	Subscribe(userID string, fn session.Listener) (unsubscribe func())
}

// MemoryBus delivers events synchronously inside the process.
type MemoryBus struct {
	mu   sync.RWMutex
	next int
	subs map[string]map[int]session.Listener
}

func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: map[string]map[int]session.Listener{}}
}

func (b *MemoryBus) Publish(_ context.Context, evt session.Event) error {
	b.deliver(evt)
	return nil
}

func (b *MemoryBus) deliver(evt session.Event) {
	b.mu.RLock()
	listeners := make([]session.Listener, 0, len(b.subs[evt.UserID]))
	for _, fn := range b.subs[evt.UserID] {
		listeners = append(listeners, fn)
	}
	b.mu.RUnlock()

	// listeners may unsubscribe while handling the event
	for _, fn := range listeners {
		fn(evt)
	}
}

func (b *MemoryBus) Subscribe(userID string, fn session.Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	if b.subs[userID] == nil {
		b.subs[userID] = map[int]session.Listener{}
	}
	b.subs[userID][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[userID], id)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
		})
	}
}

// Subscribers reports how many listeners a user currently has.
func (b *MemoryBus) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}
