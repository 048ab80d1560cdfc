package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-process TokenCache for tests. TTLs are honored on
// read.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value   string
	expires time.Time
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]memEntry{}}
}

func (m *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memEntry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || time.Now().After(e.expires) {
		return "", nil
	}
	return e.value, nil
}

func (m *memCache) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

func TestRecordAndDropAccess(t *testing.T) {
	cache := newMemCache()
	s := NewSessions(cache)
	ctx := context.Background()

	require.NoError(t, s.RecordAccess(ctx, 42, "some.access.token", time.Minute))

	sum := sha256.Sum256([]byte("some.access.token"))
	v, err := cache.Get(ctx, "user:42:access_hash")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(sum[:]), v)

	require.NoError(t, s.DropAccess(ctx, 42))

	v, err = cache.Get(ctx, "user:42:access_hash")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestRefreshBlacklist(t *testing.T) {
	s := NewSessions(newMemCache())
	ctx := context.Background()

	got, err := s.IsRefreshBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, s.BlacklistRefresh(ctx, "jti-1", time.Now().Add(time.Hour)))

	got, err = s.IsRefreshBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = s.IsRefreshBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestBlacklistSkipsExpiredTokens(t *testing.T) {
	s := NewSessions(newMemCache())
	ctx := context.Background()

	// Already expired, nothing to record
	require.NoError(t, s.BlacklistRefresh(ctx, "jti-old", time.Now().Add(-time.Minute)))

	got, err := s.IsRefreshBlacklisted(ctx, "jti-old")
	require.NoError(t, err)
	assert.False(t, got)
}
