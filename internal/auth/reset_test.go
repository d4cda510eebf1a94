package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetTokenIssueAndConsume(t *testing.T) {
	store := NewResetTokenStore(newTestRedis(t))
	ctx := context.Background()

	token, err := store.Issue(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	ok, err := store.Consume(ctx, "ana@example.com", token)
	require.NoError(t, err)
	assert.True(t, ok)

	// Single use: the same token must never redeem twice.
	ok, err = store.Consume(ctx, "ana@example.com", token)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetTokenMismatchDoesNotConsume(t *testing.T) {
	store := NewResetTokenStore(newTestRedis(t))
	ctx := context.Background()

	token, err := store.Issue(ctx, "ana@example.com")
	require.NoError(t, err)

	ok, err := store.Consume(ctx, "ana@example.com", "wrong-token")
	require.NoError(t, err)
	assert.False(t, ok)

	// A failed guess must not burn the outstanding token.
	ok, err = store.Consume(ctx, "ana@example.com", token)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetTokenReissueReplacesOld(t *testing.T) {
	store := NewResetTokenStore(newTestRedis(t))
	ctx := context.Background()

	first, err := store.Issue(ctx, "ana@example.com")
	require.NoError(t, err)
	second, err := store.Issue(ctx, "ana@example.com")
	require.NoError(t, err)

	ok, err := store.Consume(ctx, "ana@example.com", first)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.Consume(ctx, "ana@example.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetTokenExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewResetTokenStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	token, err := store.Issue(ctx, "ana@example.com")
	require.NoError(t, err)

	mr.FastForward(61 * time.Minute)

	ok, err := store.Consume(ctx, "ana@example.com", token)
	require.NoError(t, err)
	assert.False(t, ok)
}
