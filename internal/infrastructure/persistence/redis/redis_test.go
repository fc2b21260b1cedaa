package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/testutil"
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

func TestCartCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := NewCartCache(client, time.Minute)

	_, err := cache.Get(ctx, 1)
	assert.ErrorIs(t, err, cart.ErrCacheMiss)

	c := cart.NewCart(1)
	require.NoError(t, c.AddItem(10, 2, 150))
	stored, err := cache.SetIfVersion(ctx, c, "")
	require.NoError(t, err)
	assert.True(t, stored)

	ttl := mr.TTL("cart:1")
	assert.GreaterOrEqual(t, ttl, time.Minute)
	assert.Less(t, ttl, time.Minute+time.Minute/10+time.Second)

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, c.Items, got.Items)
	assert.Equal(t, int64(300), got.TotalAmount)

	require.NoError(t, cache.Invalidate(ctx, 1))
	_, err = cache.Get(ctx, 1)
	assert.ErrorIs(t, err, cart.ErrCacheMiss)
}

func TestCartCache_StaleVersionIsNotWritten(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := NewCartCache(client, time.Minute)

	// 读库前取到的版本号
	before, err := cache.Version(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, before)

	stale := cart.NewCart(1)
	require.NoError(t, stale.AddItem(10, 1, 100))

	// 读库之后、回填之前有一次变更提交
	require.NoError(t, cache.Invalidate(ctx, 1))
	after, err := cache.Version(ctx, 1)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
	assert.Greater(t, mr.TTL("cart:1:ver"), time.Minute)

	stored, err := cache.SetIfVersion(ctx, stale, before)
	require.NoError(t, err)
	assert.False(t, stored)
	_, err = cache.Get(ctx, 1)
	assert.ErrorIs(t, err, cart.ErrCacheMiss)

	fresh := cart.NewCart(1)
	require.NoError(t, fresh.AddItem(10, 5, 100))
	stored, err = cache.SetIfVersion(ctx, fresh, after)
	require.NoError(t, err)
	assert.True(t, stored)

	got, err := cache.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Items[0].Quantity)
}

func TestCartCache_CorruptValueIsMiss(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := NewCartCache(client, time.Minute)

	require.NoError(t, mr.Set("cart:7", "{not json"))

	_, err := cache.Get(ctx, 7)
	assert.ErrorIs(t, err, cart.ErrCacheMiss)
	assert.False(t, mr.Exists("cart:7"))
}

func TestCartCache_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	cache := NewCartCache(client, time.Minute)

	_, err := cache.SetIfVersion(ctx, cart.NewCart(3), "")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = cache.Get(ctx, 3)
	assert.ErrorIs(t, err, cart.ErrCacheMiss)
}

func TestSessionStore(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	store := NewSessionStore(client)

	_, err := store.GetSession(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, store.SaveSession(ctx, Session{UserID: 5, Email: "a@example.com", Role: "admin", LoginAt: 1700000000}, time.Hour))
	sess, err := store.GetSession(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), sess.UserID)
	assert.Equal(t, "a@example.com", sess.Email)
	assert.Equal(t, "admin", sess.Role)
	assert.Equal(t, int64(1700000000), sess.LoginAt)
	assert.Equal(t, time.Hour, mr.TTL("session:5"))

	require.NoError(t, store.DeleteSession(ctx, 5))
	_, err = store.GetSession(ctx, 5)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_Blacklist(t *testing.T) {
	ctx := context.Background()
	client, mr := testutil.NewRedis(t)
	store := NewSessionStore(client)

	revoked, err := store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "tok", time.Minute))
	revoked, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsInBlacklist(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, revoked)
}
