package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/upiqr/core/logger"
)

type entry struct {
	obj       Object
	expiresAt time.Time // zero means no expiry
}

// MemoryStore keeps objects in process memory. Expired objects are invisible
// to Get immediately and are reclaimed by the cleanup loop started with
// Start or Run.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]entry

	ttl             time.Duration
	cleanupInterval time.Duration
	shutdownTimeout time.Duration
	logger          *slog.Logger
	now             func() time.Time

	cancel  context.CancelFunc
	running atomic.Bool
	wg      sync.WaitGroup

	removed atomic.Int64
}

// MemoryStoreStats describes the store for health and debugging endpoints.
type MemoryStoreStats struct {
	Objects   int
	Removed   int64
	IsRunning bool
}

type MemoryStoreOption func(*MemoryStore)

// WithTTL sets how long objects live. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if ttl >= 0 {
			ms.ttl = ttl
		}
	}
}

// WithCleanupInterval sets how often expired objects are reclaimed.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) { ms.cleanupInterval = interval }
}

func WithShutdownTimeout(timeout time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if timeout > 0 {
			ms.shutdownTimeout = timeout
		}
	}
}

func WithLogger(l *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if l != nil {
			ms.logger = l
		}
	}
}

// WithClock replaces time.Now. Used by tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		objects:         make(map[string]entry),
		ttl:             time.Hour,
		cleanupInterval: 5 * time.Minute,
		shutdownTimeout: 30 * time.Second,
		logger:          logger.Discard(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(ms)
	}
	ms.logger = ms.logger.With(logger.Component("storage.memory"))
	return ms
}

func (ms *MemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyData
	}

	e := entry{obj: Object{Key: key, ContentType: contentType, Data: slices.Clone(data)}}
	if ms.ttl > 0 {
		e.expiresAt = ms.now().Add(ms.ttl)
	}

	ms.mu.Lock()
	ms.objects[key] = e
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (Object, error) {
	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}

	ms.mu.RLock()
	e, ok := ms.objects[key]
	ms.mu.RUnlock()

	if !ok || ms.expired(e, ms.now()) {
		return Object{}, ErrNotFound
	}
	obj := e.obj
	obj.Data = slices.Clone(e.obj.Data)
	return obj, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	ms.mu.Lock()
	delete(ms.objects, key)
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) expired(e entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Start runs the cleanup loop until ctx is cancelled. It blocks; use Run
// with errgroup or call it in a goroutine.
func (ms *MemoryStore) Start(ctx context.Context) error {
	ms.mu.Lock()
	if ms.cancel != nil {
		ms.mu.Unlock()
		return errors.New("storage: memory store already started")
	}
	if ms.cleanupInterval <= 0 {
		ms.mu.Unlock()
		return fmt.Errorf("storage: cleanup interval must be > 0, got %v", ms.cleanupInterval)
	}
	ctx, ms.cancel = context.WithCancel(ctx)
	ms.mu.Unlock()

	ms.running.Store(true)
	defer ms.running.Store(false)

	ms.logger.InfoContext(ctx, "cleanup started", slog.Duration("cleanup_interval", ms.cleanupInterval), slog.Duration("ttl", ms.ttl))

	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			ms.logger.InfoContext(context.Background(), "cleanup stopping")
			return ctx.Err()
		case <-ticker.C:
			ms.cleanupWithWait()
		}
	}
}

// Stop cancels the cleanup loop and waits for a running pass to finish.
func (ms *MemoryStore) Stop() error {
	ms.mu.Lock()
	if ms.cancel == nil {
		ms.mu.Unlock()
		return errors.New("storage: memory store not started")
	}
	cancel := ms.cancel
	ms.cancel = nil
	ms.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		ms.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(ms.shutdownTimeout):
		ms.logger.Warn("shutdown timeout exceeded", logger.Duration(ms.shutdownTimeout))
		return fmt.Errorf("storage: shutdown timeout exceeded after %s", ms.shutdownTimeout)
	}
}

// Run returns a function for errgroup.Group.Go.
func (ms *MemoryStore) Run(ctx context.Context) func() error {
	return func() error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- ms.Start(ctx)
		}()

		select {
		case <-ctx.Done():
			_ = ms.Stop()
			<-errCh
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
	}
}

func (ms *MemoryStore) cleanupWithWait() {
	ms.mu.RLock()
	if ms.cancel == nil {
		ms.mu.RUnlock()
		return
	}
	ms.wg.Add(1)
	ms.mu.RUnlock()

	defer ms.wg.Done()
	ms.RemoveExpired()
}

// RemoveExpired drops every expired object and returns how many were
// removed. The cleanup loop calls it on each tick.
func (ms *MemoryStore) RemoveExpired() int {
	now := ms.now()

	ms.mu.Lock()
	removed := 0
	for key, e := range ms.objects {
		if ms.expired(e, now) {
			delete(ms.objects, key)
			removed++
		}
	}
	ms.mu.Unlock()

	if removed > 0 {
		ms.removed.Add(int64(removed))
		ms.logger.Debug("expired objects removed", logger.Count("removed", removed))
	}
	return removed
}

func (ms *MemoryStore) Stats() MemoryStoreStats {
	ms.mu.RLock()
	n := len(ms.objects)
	ms.mu.RUnlock()

	return MemoryStoreStats{
		Objects:   n,
		Removed:   ms.removed.Load(),
		IsRunning: ms.running.Load(),
	}
}

// Healthcheck fails when cleanup is configured but the loop is not running.
func (ms *MemoryStore) Healthcheck(ctx context.Context) error {
	if ms.cleanupInterval > 0 && !ms.running.Load() {
		return errors.New("storage: cleanup is configured but not running")
	}
	return nil
}
