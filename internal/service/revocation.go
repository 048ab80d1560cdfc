// Package service contains supporting services consumed by the handlers
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// TokenCache is the small slice of the cache the session bookkeeping
// needs. Get returns an empty string for a missing key.
type TokenCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
}

type redisCache struct {
	rdb *redis.Client
}

// NewRedisCache connects to the configured redis instance.
func NewRedisCache() TokenCache {
	return &redisCache{rdb: redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: viper.GetString("redis.password"),
		DB:       viper.GetInt("redis.db"),
	})}
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return v, err
}

func (r *redisCache) Del(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

// Sessions keeps the server-side leftovers of token issuance: a hash
// of the live access token per user, and the refresh token blacklist.
// The access-hash entry is advisory, it supports logout-time cleanup
// but never gates authentication.
type Sessions struct {
	cache TokenCache
}

func NewSessions(cache TokenCache) *Sessions {
	return &Sessions{cache: cache}
}

func accessHashKey(userID uint) string {
	return fmt.Sprintf("user:%d:access_hash", userID)
}

// RecordAccess stores sha256(token) under the user's access-hash key
// with a TTL matching the token's declared lifetime.
func (s *Sessions) RecordAccess(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	sum := sha256.Sum256([]byte(token))
	return s.cache.Set(ctx, accessHashKey(userID), hex.EncodeToString(sum[:]), ttl)
}

// DropAccess removes the user's access-hash entry.
func (s *Sessions) DropAccess(ctx context.Context, userID uint) error {
	return s.cache.Del(ctx, accessHashKey(userID))
}

// BlacklistRefresh marks a refresh token's jti as invalidated until it
// would have expired anyway.
func (s *Sessions) BlacklistRefresh(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, "blacklist:refresh:"+jti, "1", ttl)
}

// IsRefreshBlacklisted reports whether a refresh token's jti has been
// invalidated.
func (s *Sessions) IsRefreshBlacklisted(ctx context.Context, jti string) (bool, error) {
	v, err := s.cache.Get(ctx, "blacklist:refresh:"+jti)
	if err != nil {
		return false, err
	}
	return v != "", nil
}
