package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// idempotencyLockValue marks a key whose first request is still in flight.
const idempotencyLockValue = "processing"

// IdempotencyStore implements usecase.IdempotencyStore on redis. A client
// retrying a transfer with the same Idempotency-Key gets the recorded
// response instead of moving money twice.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet atomically checks whether key was seen before, claiming it if
// not. Returns (seen, recordedResponse, error).
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err == nil {
		return true, existing, nil
	}
	if err != redis.Nil {
		return false, nil, err
	}

	if response != nil {
		if err := s.client.Set(ctx, fullKey, response, ttl).Err(); err != nil {
			return false, nil, err
		}

		return false, nil, nil
	}

	// No response yet: claim the key so a concurrent retry waits on the
	// first request's outcome instead of executing again.
	set, err := s.client.SetNX(ctx, fullKey, idempotencyLockValue, ttl).Result()
	if err != nil {
		return false, nil, err
	}

	if !set {
		// Lost the race; surface whatever the winner recorded.
		existing, err := s.client.Get(ctx, fullKey).Bytes()
		if err != nil && err != redis.Nil {
			return false, nil, err
		}

		return true, existing, nil
	}

	return false, nil, nil
}

// Update records the final response for a previously claimed key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
