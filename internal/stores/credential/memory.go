package credential

import (
	"context"
	"sync"

	"github.com/sales793/torenius-timber/internal/xero"
)

// InMemoryStore is a non-durable credential store used in tests and as a
// fallback when no database is configured.
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// Compile-time interface satisfaction check.
var _ xero.CredentialStorage = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new in-memory credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string][]byte),
	}
}

func (s *InMemoryStore) get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[key]
	if !exists {
		return nil, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *InMemoryStore) set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

func (s *InMemoryStore) delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// GetTokens retrieves the stored token set, or nil when none is stored.
func (s *InMemoryStore) GetTokens(ctx context.Context) (*xero.TokenSet, error) {
	return getTokens(ctx, s)
}

// SaveTokens replaces the stored token set.
func (s *InMemoryStore) SaveTokens(ctx context.Context, tokens *xero.TokenSet) error {
	return saveTokens(ctx, s, tokens)
}

// GetConfig retrieves the stored organization config, or nil when none is stored.
func (s *InMemoryStore) GetConfig(ctx context.Context) (*xero.OrgConfig, error) {
	return getConfig(ctx, s)
}

// SaveConfig replaces the stored organization config.
func (s *InMemoryStore) SaveConfig(ctx context.Context, config *xero.OrgConfig) error {
	return saveConfig(ctx, s, config)
}

// Clear removes both the token set and the organization config.
func (s *InMemoryStore) Clear(ctx context.Context) error {
	return clearAll(ctx, s)
}
