package memory

import (
	"context"
	"sync"
	"time"
)

// RevocationList is an in-process token denylist. Expired entries are
// dropped lazily on lookup.
type RevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewRevocationList() *RevocationList {
	return &RevocationList{entries: make(map[string]time.Time), now: time.Now}
}

func (l *RevocationList) Revoke(_ context.Context, tokenID string, until time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[tokenID] = until
	return nil
}

func (l *RevocationList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.entries[tokenID]
	if !ok {
		return false, nil
	}
	if !l.now().Before(until) {
		delete(l.entries, tokenID)
		return false, nil
	}
	return true, nil
}
