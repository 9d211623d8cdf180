package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/justgo-bridge/internal/core/domain"
)

func TestStore_SetGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "abc"}, time.Minute))

	token, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", token.Token)
}

func TestStore_Expiry(t *testing.T) {
	store := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "abc"}, time.Minute))

	now = now.Add(59 * time.Second)
	_, ok, _ := store.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_ZeroTTLNeverExpires(t *testing.T) {
	store := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(context.Background(), "k", domain.AccessToken{Token: "abc"}, 0))
	now = now.Add(1000 * time.Hour)

	_, ok, _ := store.Get(context.Background(), "k")
	assert.True(t, ok)
}

func TestStore_LastWriteWins(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "first"}, time.Minute))
	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "second"}, time.Minute))

	token, _, _ := store.Get(ctx, "k")
	assert.Equal(t, "second", token.Token)
}

func TestStore_EvictKeepsTokenSetAfterExpiredRead(t *testing.T) {
	store := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "stale"}, time.Minute))
	now = now.Add(2 * time.Minute)

	// A reader saw the stale entry; another client stores a fresh token
	// before the reader evicts.
	require.NoError(t, store.Set(ctx, "k", domain.AccessToken{Token: "fresh"}, time.Minute))
	store.evict("k")

	token, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fresh", token.Token)
}

func TestStore_EvictRemovesExpired(t *testing.T) {
	store := New()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(context.Background(), "k", domain.AccessToken{Token: "stale"}, time.Minute))
	now = now.Add(2 * time.Minute)
	store.evict("k")

	assert.Empty(t, store.entries)
}
