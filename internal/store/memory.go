package store

import (
	"context"
	"sync"

	"github.com/dmartinc/offerlock/internal/offer"
)

var _ RuleStore = (*MemoryRuleStore)(nil)

// MemoryRuleStore is an in-memory RuleStore for tests and local development.
// It mirrors the durable store's full-replace semantics.
type MemoryRuleStore struct {
	mu    sync.RWMutex
	rules []offer.Rule
}

// NewMemoryRuleStore creates an empty in-memory store.
func NewMemoryRuleStore() *MemoryRuleStore {
	return &MemoryRuleStore{}
}

// All returns a copy of the stored rules.
func (s *MemoryRuleStore) All(ctx context.Context) ([]offer.Rule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]offer.Rule, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

// Save replaces the stored rules with a copy of the given slice.
func (s *MemoryRuleStore) Save(ctx context.Context, rules []offer.Rule) error {
	replacement := make([]offer.Rule, len(rules))
	copy(replacement, rules)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = replacement
	return nil
}
