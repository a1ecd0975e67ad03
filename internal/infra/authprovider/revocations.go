package authprovider

import (
	"context"
	"sync"
	"time"
)

// RevocationStore tracks which sessions are no longer valid.
//
// A global sign-out bumps the user's generation; tokens minted under an
// older generation stop resolving. A local sign-out revokes one token id.
type RevocationStore interface {
	Generation(ctx context.Context, userID string) (int64, error)
	BumpGeneration(ctx context.Context, userID string) (int64, error)
	RevokeToken(ctx context.Context, tokenID string, until time.Time) error
	TokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type MemoryRevocations struct {
	mu     sync.Mutex
	gens   map[string]int64
	tokens map[string]time.Time
	now    func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		gens:   map[string]int64{},
		tokens: map[string]time.Time{},
		now:    time.Now,
	}
}

func (m *MemoryRevocations) Generation(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gens[userID], nil
}

func (m *MemoryRevocations) BumpGeneration(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gens[userID]++
	return m.gens[userID], nil
}

func (m *MemoryRevocations) RevokeToken(_ context.Context, tokenID string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[tokenID] = until
	return nil
}

func (m *MemoryRevocations) TokenRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.tokens[tokenID]
	if !ok {
		return false, nil
	}
	if m.now().After(until) {
		// the token has expired on its own
		delete(m.tokens, tokenID)
		return false, nil
	}
	return true, nil
}
