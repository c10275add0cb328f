package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dmartinc/offerlock/internal/offer"
)

// DefaultRulesKey is the Redis key holding the rule set unless a different
// one is configured.
const DefaultRulesKey = "offerlock:rules"

// Compile-time check that RedisRuleStore implements RuleStore.
var _ RuleStore = (*RedisRuleStore)(nil)

// RedisRuleStore keeps the whole rule set in a single Redis value. A plain
// SET of the full payload gives the atomic whole-value replace the domain
// assumes: last writer wins, concurrent saves are not merged.
type RedisRuleStore struct {
	client   *redis.Client
	key      string
	decimals int32
}

// NewRedisRuleStore creates a store over an established Redis client.
// An empty key selects DefaultRulesKey.
func NewRedisRuleStore(client *redis.Client, key string, decimals int32) *RedisRuleStore {
	if client == nil {
		panic("store: redis client cannot be nil")
	}
	if key == "" {
		key = DefaultRulesKey
	}

	return &RedisRuleStore{
		client:   client,
		key:      key,
		decimals: decimals,
	}
}

// All loads and decodes the stored rule set. A missing key is an empty set,
// not an error.
func (s *RedisRuleStore) All(ctx context.Context) ([]offer.Rule, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: read rule set: %w", err)
	}

	return decodeRules(data, s.decimals)
}

// Save replaces the stored rule set with the given rules.
func (s *RedisRuleStore) Save(ctx context.Context, rules []offer.Rule) error {
	data, err := encodeRules(rules)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("store: save rule set: %w", err)
	}
	return nil
}
