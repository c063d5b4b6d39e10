package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryTokenStore keeps revoked token ids in process memory. It backs the
// in-memory store driver, where no Redis is configured.
type MemoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // zero time: never expires
	now     func() time.Time
}

var _ TokenStoreInterface = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore creates an empty in-process token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke marks a token id as revoked. A zero ttl keeps the marker forever.
func (s *MemoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var until time.Time
	if ttl > 0 {
		until = s.now().Add(ttl)
	}
	s.revoked[tokenID] = until
	return nil
}

// IsRevoked checks if a token id was revoked and the marker is still live.
func (s *MemoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !until.IsZero() && !s.now().Before(until) {
		delete(s.revoked, tokenID)
		return false, nil
	}
	return true, nil
}
