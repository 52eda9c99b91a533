package storage_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/upiqr/core/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStorePutGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemoryStore()

	data := []byte("png-bytes")
	require.NoError(t, store.Put(ctx, "qr_1.png", data, "image/png"))

	data[0] = 'X'

	obj, err := store.Get(ctx, "qr_1.png")
	require.NoError(t, err)
	assert.Equal(t, "qr_1.png", obj.Key)
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, []byte("png-bytes"), obj.Data)

	_, err = store.Get(ctx, "qr_2.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "qr_1.png"))
	_, err = store.Get(ctx, "qr_1.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMemoryStoreRejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemoryStore()

	for _, key := range []string{"", "../etc/passwd", "a/b.png", ".hidden", "sp ace.png", strings.Repeat("a", 256)} {
		assert.ErrorIs(t, store.Put(ctx, key, []byte("x"), "image/png"), storage.ErrInvalidKey, key)
		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrInvalidKey, key)
	}

	assert.ErrorIs(t, store.Put(ctx, "qr.png", nil, "image/png"), storage.ErrEmptyData)
}

func TestMemoryStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	store := storage.NewMemoryStore(storage.WithTTL(time.Minute), storage.WithClock(clock.Now))

	require.NoError(t, store.Put(ctx, "a.png", []byte("a"), "image/png"))
	clock.Advance(30 * time.Second)
	require.NoError(t, store.Put(ctx, "b.png", []byte("b"), "image/png"))

	clock.Advance(30 * time.Second)
	_, err := store.Get(ctx, "a.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = store.Get(ctx, "b.png")
	assert.NoError(t, err)

	assert.Equal(t, 1, store.RemoveExpired())
	stats := store.Stats()
	assert.Equal(t, 1, stats.Objects)
	assert.Equal(t, int64(1), stats.Removed)
}

func TestMemoryStoreNoTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	store := storage.NewMemoryStore(storage.WithTTL(0), storage.WithClock(clock.Now))

	require.NoError(t, store.Put(ctx, "a.png", []byte("a"), "image/png"))
	clock.Advance(24 * 365 * time.Hour)

	_, err := store.Get(ctx, "a.png")
	assert.NoError(t, err)
	assert.Zero(t, store.RemoveExpired())
}

func TestMemoryStoreRun(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	store := storage.NewMemoryStore(
		storage.WithTTL(time.Second),
		storage.WithCleanupInterval(10*time.Millisecond),
		storage.WithClock(clock.Now),
	)
	require.Error(t, store.Healthcheck(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- store.Run(ctx)() }()

	require.Eventually(t, func() bool { return store.Stats().IsRunning }, time.Second, 5*time.Millisecond)
	assert.NoError(t, store.Healthcheck(ctx))

	require.NoError(t, store.Put(ctx, "a.png", []byte("a"), "image/png"))
	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return store.Stats().Objects == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestMemoryStoreStartErrors(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore(storage.WithCleanupInterval(0))
	assert.Error(t, store.Start(context.Background()))
	assert.Error(t, store.Stop())
}

func TestNewKey(t *testing.T) {
	t.Parallel()

	key := storage.NewKey("modified_qr", ".png")
	assert.True(t, strings.HasPrefix(key, "modified_qr_"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Len(t, key, len("modified_qr_")+36+len(".png"))
	assert.NoError(t, storage.ValidateKey(key))
	assert.NotEqual(t, key, storage.NewKey("modified_qr", ".png"))
}
