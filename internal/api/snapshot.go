package api

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/erazemk/vozicek/internal/readiness"
	"github.com/erazemk/vozicek/internal/store"
)

// SnapshotCache hands out a shared read snapshot and reloads it once it is
// older than maxAge or after a mutation invalidates it.
type SnapshotCache struct {
	db     *sql.DB
	maxAge time.Duration
	now    func() time.Time

	mu   sync.Mutex
	snap *readiness.Snapshot
}

// NewSnapshotCache creates a cache over db. A zero maxAge reloads on every
// call.
func NewSnapshotCache(db *sql.DB, maxAge time.Duration, now func() time.Time) *SnapshotCache {
	if now == nil {
		now = time.Now
	}
	return &SnapshotCache{db: db, maxAge: maxAge, now: now}
}

// Get returns a snapshot no older than maxAge.
func (c *SnapshotCache) Get(ctx context.Context) (readiness.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.snap != nil && c.maxAge > 0 && !c.snap.Stale(now) {
		return *c.snap, nil
	}

	snap, err := store.LoadSnapshot(ctx, c.db, c.maxAge, now)
	if err != nil {
		return readiness.Snapshot{}, err
	}
	c.snap = &snap
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.snap = nil
	c.mu.Unlock()
}
