package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdeck/internal/auth"
)

func TestTokenCacheValidity(t *testing.T) {
	var nilCache *auth.TokenCache
	assert.False(t, nilCache.IsValid())

	assert.False(t, (&auth.TokenCache{}).IsValid())

	expired := &auth.TokenCache{
		Token:     "old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	assert.False(t, expired.IsValid())

	// Inside the expiry buffer counts as stale even though it has not
	// technically expired yet.
	almostExpired := &auth.TokenCache{
		Token:     "stale",
		ExpiresAt: time.Now().Add(30 * time.Second),
	}
	assert.False(t, almostExpired.IsValid())

	fresh := &auth.TokenCache{
		Token:     "good",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	assert.True(t, fresh.IsValid())
}

func TestMemoryTokenCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	cache := auth.NewMemoryTokenCache()

	cached, err := cache.GetToken(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	require.NoError(t, cache.SetToken(ctx, "abc", 3600))

	cached, err = cache.GetToken(ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, "abc", cached.Token)
}

func TestMemoryTokenCacheExpiredTokenNotReturned(t *testing.T) {
	ctx := context.Background()
	cache := auth.NewMemoryTokenCache()

	// Lifetime shorter than the expiry buffer: immediately stale.
	require.NoError(t, cache.SetToken(ctx, "short-lived", 10))

	cached, err := cache.GetToken(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)
}
