package tokencache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "reset_a@b.com", "tok123", time.Hour))

	value, found, err := store.Get(ctx, "reset_a@b.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok123", value)

	_, found, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	now := time.Now()
	store.SetClock(func() time.Time { return now })

	require.NoError(t, store.Set(ctx, "reset_a@b.com", "tok123", time.Hour))

	// Just before the deadline the entry is still alive
	store.SetClock(func() time.Time { return now.Add(59 * time.Minute) })
	_, found, err := store.Get(ctx, "reset_a@b.com")
	require.NoError(t, err)
	assert.True(t, found)

	// Past the deadline it is gone, and stays gone
	store.SetClock(func() time.Time { return now.Add(61 * time.Minute) })
	_, found, err = store.Get(ctx, "reset_a@b.com")
	require.NoError(t, err)
	assert.False(t, found)

	store.SetClock(func() time.Time { return now })
	_, found, err = store.Get(ctx, "reset_a@b.com")
	require.NoError(t, err)
	assert.False(t, found, "expired entry must be purged on read")
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "revoked_abc", "revoked", time.Hour))
	require.NoError(t, store.Delete(ctx, "revoked_abc"))

	_, found, err := store.Get(ctx, "revoked_abc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "reset_a@b.com", ResetKey("a@b.com"))
	assert.Equal(t, "revoked_xyz", RevokedKey("xyz"))
}
