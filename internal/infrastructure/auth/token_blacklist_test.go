package auth_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caterflow/backend/internal/infrastructure/auth"
)

func TestInMemoryTokenBlacklist_AddToBlacklist(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	err := blacklist.AddToBlacklist(ctx, "jti-logout-chef", 1*time.Hour)
	require.NoError(t, err)

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "jti-logout-chef")
	require.NoError(t, err)
	assert.True(t, isBlacklisted)

	// A different JTI stays usable
	isBlacklisted, err = blacklist.IsBlacklisted(ctx, "jti-active-manager")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_ExpirationCleanup(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	// Entry with a TTL shorter than the token's own lifetime
	err := blacklist.AddToBlacklist(ctx, "jti-short-lived", 1*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	// Expired entries are evicted on lookup
	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "jti-short-lived")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_UserTokenInvalidation(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()
	const siteManager = "user-site-manager"

	// Token issued before the force-logout
	tokenIssuedAt := time.Now().Add(-1 * time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, siteManager, tokenIssuedAt)
	require.NoError(t, err)
	assert.False(t, invalidated)

	// Force logout of every session for that user
	err = blacklist.AddUserTokensToBlacklist(ctx, siteManager, 1*time.Hour)
	require.NoError(t, err)

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, siteManager, tokenIssuedAt)
	require.NoError(t, err)
	assert.True(t, invalidated)

	// Token issued after the invalidation marker is still good
	futureToken := time.Now().Add(1 * time.Second)
	time.Sleep(2 * time.Millisecond)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, siteManager, futureToken)
	require.NoError(t, err)
	assert.False(t, invalidated)

	// Other users keep their sessions
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-head-chef", tokenIssuedAt)
	require.NoError(t, err)
	assert.False(t, invalidated)
}

func TestInMemoryTokenBlacklist_MultipleTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		jti := fmt.Sprintf("jti-session-%02d", i)
		err := blacklist.AddToBlacklist(ctx, jti, 1*time.Hour)
		require.NoError(t, err)
	}

	for i := 0; i < 10; i++ {
		jti := fmt.Sprintf("jti-session-%02d", i)
		isBlacklisted, err := blacklist.IsBlacklisted(ctx, jti)
		require.NoError(t, err)
		assert.True(t, isBlacklisted, "token %s should be blacklisted", jti)
	}

	isBlacklisted, err := blacklist.IsBlacklisted(ctx, "jti-never-revoked")
	require.NoError(t, err)
	assert.False(t, isBlacklisted)
}

func TestInMemoryTokenBlacklist_ConcurrentAccess(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			jti := fmt.Sprintf("jti-concurrent-%d", n)
			_ = blacklist.AddToBlacklist(ctx, jti, 1*time.Hour)
			_, _ = blacklist.IsBlacklisted(ctx, jti)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		isBlacklisted, err := blacklist.IsBlacklisted(ctx, fmt.Sprintf("jti-concurrent-%d", i))
		require.NoError(t, err)
		assert.True(t, isBlacklisted)
	}
}

func TestInMemoryTokenBlacklist_Interface(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
}

func TestRedisTokenBlacklist_Interface(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
}
