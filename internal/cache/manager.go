package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Manager groups the namespaces used by the repositories.
type Manager struct {
	client *redis.Client

	Course *Store
	Blog   *Store
	Staff  *Store
	Stats  *Store

	// Set only on managers returned by ForTransaction.
	parent  *Manager
	pending *[]func(context.Context, *Manager)
}

// NewManager accepts a nil client; every Store then degrades to a pass-through.
func NewManager(client *redis.Client) *Manager {
	return &Manager{
		client: client,
		Course: newStore(client, "course", 10*time.Minute),
		Blog:   newStore(client, "blog", 10*time.Minute),
		Staff:  newStore(client, "staff", time.Minute),
		Stats:  newStore(client, "stats", time.Minute),
	}
}

// ForTransaction returns a Manager for repositories bound to a database
// transaction. Its reads and writes bypass Redis, and its invalidations are
// queued. The caller runs commit once the transaction has committed; on
// rollback the queue is simply dropped.
func (m *Manager) ForTransaction() (tx *Manager, commit func(context.Context)) {
	var pending []func(context.Context, *Manager)
	tx = NewManager(nil)
	tx.parent = m
	tx.pending = &pending
	return tx, func(ctx context.Context) {
		for _, fn := range pending {
			fn(ctx, m)
		}
	}
}

// queued reports whether fn was held for commit instead of run now.
func (m *Manager) queued(fn func(context.Context, *Manager)) bool {
	if m.parent == nil {
		return false
	}
	*m.pending = append(*m.pending, fn)
	return true
}

func (m *Manager) HealthCheck(ctx context.Context) error {
	if m.client == nil {
		return ErrUnavailable
	}
	return m.client.Ping(ctx).Err()
}

// InvalidateCourses evicts the given courses and the dashboard counts.
func (m *Manager) InvalidateCourses(ctx context.Context, ids ...string) {
	if m.queued(func(ctx context.Context, p *Manager) { p.InvalidateCourses(ctx, ids...) }) {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "id:" + id
	}
	m.evict(ctx, m.Course, keys...)
	m.InvalidateStats(ctx)
}

// InvalidateBlog evicts a blog under both of its lookup keys.
func (m *Manager) InvalidateBlog(ctx context.Context, id, slug string) {
	if m.queued(func(ctx context.Context, p *Manager) { p.InvalidateBlog(ctx, id, slug) }) {
		return
	}
	m.evict(ctx, m.Blog, "id:"+id, "slug:"+slug)
	m.InvalidateStats(ctx)
}

func (m *Manager) InvalidateStaff(ctx context.Context, id string) {
	if m.queued(func(ctx context.Context, p *Manager) { p.InvalidateStaff(ctx, id) }) {
		return
	}
	m.evict(ctx, m.Staff, "id:"+id)
	m.InvalidateStats(ctx)
}

func (m *Manager) InvalidateStats(ctx context.Context) {
	if m.queued(func(ctx context.Context, p *Manager) { p.InvalidateStats(ctx) }) {
		return
	}
	if err := m.Stats.Flush(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to flush dashboard cache", "error", err)
	}
}

func (m *Manager) evict(ctx context.Context, s *Store, keys ...string) {
	if err := s.Evict(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to evict cache keys", "error", err, "prefix", s.prefix, "keys", keys)
	}
}
