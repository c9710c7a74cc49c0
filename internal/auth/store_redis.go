// Copyright (c) 2026 Vitalink Health. All rights reserved.
// Author: platform@vitalink.health

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vitalink-health/api/internal/platform/apperr"
)

// RedisTokenStore implements [TokenStore] on Redis with a key prefix per
// token kind. Expiry is delegated to Redis TTLs, so stale tokens vanish on
// their own.
type RedisTokenStore struct {
	client *redis.Client
	prefix string
}

// NewResetTokenStore creates the store for password-reset tokens.
func NewResetTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "auth:reset_token:"}
}

// NewVerificationTokenStore creates the store for email-verification tokens.
func NewVerificationTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client, prefix: "auth:verify_token:"}
}

// Set stores a token with its associated userID and TTL.
func (store *RedisTokenStore) Set(ctx context.Context, token string, userID int64, ttl time.Duration) error {
	key := store.prefix + token

	if err := store.client.Set(ctx, key, strconv.FormatInt(userID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_store_set_failed: %w", err)
	}

	return nil
}

// Get retrieves the userID for a given token.
//
// Returns [apperr.NotFound] if the token is absent or expired.
func (store *RedisTokenStore) Get(ctx context.Context, token string) (int64, error) {
	key := store.prefix + token

	raw, err := store.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.NotFound("Token")
		}
		return 0, fmt.Errorf("redis_token_store_get_failed: %w", err)
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis_token_store_corrupt_value: %w", err)
	}

	return userID, nil
}

// Delete removes the token from Redis.
func (store *RedisTokenStore) Delete(ctx context.Context, token string) error {
	key := store.prefix + token

	if err := store.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_token_store_delete_failed: %w", err)
	}

	return nil
}
