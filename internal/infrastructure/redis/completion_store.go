package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/cheyennechau/Cowlendar-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CompletionStore keeps manual completion decisions in Redis, one hash per
// (user, day) with event IDs as fields. Entries expire after the mark TTL;
// only the derived daily percentage outlives them.
type CompletionStore struct {
	client  *redis.Client
	markTTL time.Duration
}

// NewCompletionStore creates a new Redis completion store
func NewCompletionStore(client *redis.Client, markTTL time.Duration) repository.CompletionStore {
	if markTTL <= 0 {
		markTTL = 48 * time.Hour
	}
	return &CompletionStore{
		client:  client,
		markTTL: markTTL,
	}
}

// dayKey generates the Redis key for one user's marks on one day
func (s *CompletionStore) dayKey(userID uuid.UUID, day string) string {
	return fmt.Sprintf("done:%s:%s", userID.String(), day)
}

// Get returns the recorded decision for an event, if any
func (s *CompletionStore) Get(ctx context.Context, userID uuid.UUID, day, eventID string) (bool, bool, error) {
	val, err := s.client.HGet(ctx, s.dayKey(userID, day), eventID).Result()
	if err != nil {
		if err == redis.Nil {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to get completion mark: %w", err)
	}
	return val == "1", true, nil
}

// Set records a decision for an event on a day
func (s *CompletionStore) Set(ctx context.Context, userID uuid.UUID, day, eventID string, done bool) error {
	key := s.dayKey(userID, day)

	val := "0"
	if done {
		val = "1"
	}

	if err := s.client.HSet(ctx, key, eventID, val).Err(); err != nil {
		return fmt.Errorf("failed to set completion mark: %w", err)
	}

	if err := s.client.Expire(ctx, key, s.markTTL).Err(); err != nil {
		return fmt.Errorf("failed to set expiration on completion marks: %w", err)
	}

	return nil
}

// GetAll returns every recorded decision for (user, day)
func (s *CompletionStore) GetAll(ctx context.Context, userID uuid.UUID, day string) (map[string]bool, error) {
	fields, err := s.client.HGetAll(ctx, s.dayKey(userID, day)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get completion marks: %w", err)
	}

	marks := make(map[string]bool, len(fields))
	for eventID, val := range fields {
		marks[eventID] = val == "1"
	}
	return marks, nil
}

// NewClient creates a Redis client from connection settings
func NewClient(addr, password string, db, poolSize, minIdleConns int, dialTimeout, readTimeout, writeTimeout time.Duration) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})
}
