// Package vault holds per-session donor token tables. A table belongs to
// exactly one session and is dropped when that session ends or expires.
package vault

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/donor-intake-api/internal/domain"
)

type sessionTable struct {
	mu        sync.Mutex
	entries   map[string]domain.TokenEntry
	expiresAt time.Time
}

// Memory keeps session tables in process memory. Each table has its own lock;
// the registry lock is only held to find or create a table.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]*sessionTable
	now    func() time.Time
}

// NewMemory returns an in-process vault and starts a janitor that drops
// tables of expired sessions every sweep interval until ctx is cancelled.
func NewMemory(ctx context.Context, sweep time.Duration) *Memory {
	m := &Memory{
		tables: make(map[string]*sessionTable),
		now:    time.Now,
	}
	if sweep > 0 {
		go m.janitor(ctx, sweep)
	}
	return m
}

// Put records entry in the session's table, creating it on first use.
// Expired entries in the table are purged on every write.
func (m *Memory) Put(_ context.Context, sessionID string, entry domain.TokenEntry, sessionExpiry time.Time) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required: %w", domain.ErrUnauthorized)
	}
	now := m.now()

	t := m.table(sessionID, sessionExpiry)
	t.mu.Lock()
	defer t.mu.Unlock()
	if sessionExpiry.After(t.expiresAt) {
		t.expiresAt = sessionExpiry
	}
	for tok, e := range t.entries {
		if e.Expired(now) {
			delete(t.entries, tok)
		}
	}
	t.entries[entry.Token] = entry
	return nil
}

// table returns the session's table, registering it when absent. A new table
// carries sessionExpiry from the start so a sweep running before
// the first write keeps it.
func (m *Memory) table(sessionID string, sessionExpiry time.Time) *sessionTable {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tables[sessionID]
	if !ok {
		t = &sessionTable{entries: make(map[string]domain.TokenEntry), expiresAt: sessionExpiry}
		m.tables[sessionID] = t
	}
	return t
}

// Get resolves token within the session. Unknown sessions, unknown tokens
// and expired entries all yield ErrNotFound.
func (m *Memory) Get(_ context.Context, sessionID, token string) (domain.TokenEntry, error) {
	now := m.now()

	m.mu.RLock()
	t, ok := m.tables[sessionID]
	m.mu.RUnlock()
	if !ok {
		return domain.TokenEntry{}, fmt.Errorf("token table: %w", domain.ErrNotFound)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !now.Before(t.expiresAt) {
		return domain.TokenEntry{}, fmt.Errorf("token table expired: %w", domain.ErrNotFound)
	}
	e, ok := t.entries[token]
	if !ok {
		return domain.TokenEntry{}, fmt.Errorf("donor token: %w", domain.ErrNotFound)
	}
	if e.Expired(now) {
		delete(t.entries, token)
		return domain.TokenEntry{}, fmt.Errorf("donor token expired: %w", domain.ErrNotFound)
	}
	return e, nil
}

// Discard drops the session's table. Discarding an unknown session is a no-op.
func (m *Memory) Discard(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.tables, sessionID)
	m.mu.Unlock()
	return nil
}

func (m *Memory) janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

func (m *Memory) sweep() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for sid, t := range m.tables {
		t.mu.Lock()
		expired := !now.Before(t.expiresAt)
		t.mu.Unlock()
		if expired {
			delete(m.tables, sid)
		}
	}
}
