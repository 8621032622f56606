package service

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/petget/pkg/cryptox"
)

// RevocationSet remembers logged out tokens until they would have expired
// anyway.
type RevocationSet interface {
	Contains(token string) bool
	Add(token string, expiresAt time.Time)
}

// MemoryRevocations is a process-local RevocationSet. Entries are keyed by
// token fingerprint, so raw tokens are never held. Revocations are lost on
// restart.
type MemoryRevocations struct {
	mu      sync.RWMutex
	entries map[string]time.Time

	// Now defaults to time.Now.
	Now func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{entries: make(map[string]time.Time), Now: time.Now}
}

func (m *MemoryRevocations) Add(token string, expiresAt time.Time) {
	if token == "" {
		return
	}
	key := cryptox.FingerprintToken(token)

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.entries[key]; ok && prev.After(expiresAt) {
		return
	}
	m.entries[key] = expiresAt
}

// Contains reports whether token was revoked and the revocation is still live.
func (m *MemoryRevocations) Contains(token string) bool {
	if token == "" {
		return false
	}
	key := cryptox.FingerprintToken(token)

	m.mu.RLock()
	expiresAt, ok := m.entries[key]
	m.mu.RUnlock()
	return ok && m.now().Before(expiresAt)
}

// Prune drops entries whose token has expired and returns how many went.
func (m *MemoryRevocations) Prune() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, expiresAt := range m.entries {
		if !now.Before(expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of held entries, expired or not.
func (m *MemoryRevocations) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryRevocations) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
