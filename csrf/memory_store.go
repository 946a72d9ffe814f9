package csrf

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps tokens in process. Suitable for a single instance.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]memoryEntry
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore returns a MemoryStore whose tokens die after ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		tokens: make(map[string]memoryEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) Issue(_ context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", ErrNoSession
	}
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()
	s.tokens[sessionID] = memoryEntry{token: token, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

func (s *MemoryStore) Consume(_ context.Context, sessionID, presented string) bool {
	s.mu.Lock()
	entry, ok := s.tokens[sessionID]
	delete(s.tokens, sessionID)
	s.mu.Unlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		return false
	}
	return matches(entry.token, presented)
}

// Len returns the number of live tokens.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// pruneLocked drops expired tokens so abandoned sessions do not accumulate.
func (s *MemoryStore) pruneLocked() {
	now := s.now()
	for id, entry := range s.tokens {
		if !now.Before(entry.expiresAt) {
			delete(s.tokens, id)
		}
	}
}
