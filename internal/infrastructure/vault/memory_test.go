package vault

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/donor-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestMemory(now *time.Time) *Memory {
	m := NewMemory(context.Background(), 0)
	m.now = func() time.Time { return *now }
	return m
}

func TestMemory_PutGet(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "abc", DonorID: 7}, t0.Add(time.Hour)))

	e, err := m.Get(ctx, "s1", "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.DonorID(7), e.DonorID)
}

func TestMemory_TablesAreSessionScoped(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "abc", DonorID: 7}, t0.Add(time.Hour)))

	_, err := m.Get(ctx, "s2", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_SessionExpiry(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "abc", DonorID: 7}, t0.Add(time.Hour)))

	now = t0.Add(time.Hour)
	_, err := m.Get(ctx, "s1", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_EntryExpiry(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	exp := t0.Add(10 * time.Minute)
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "rnd", DonorID: 7, ExpiresAt: &exp}, t0.Add(time.Hour)))

	now = t0.Add(9 * time.Minute)
	_, err := m.Get(ctx, "s1", "rnd")
	require.NoError(t, err)

	now = exp
	_, err = m.Get(ctx, "s1", "rnd")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemory_PutPurgesExpiredEntries(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	exp := t0.Add(time.Minute)
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "old", DonorID: 1, ExpiresAt: &exp}, t0.Add(time.Hour)))

	now = t0.Add(2 * time.Minute)
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "new", DonorID: 2}, t0.Add(time.Hour)))

	m.mu.RLock()
	tbl := m.tables["s1"]
	m.mu.RUnlock()
	assert.Len(t, tbl.entries, 1)
	_, ok := tbl.entries["new"]
	assert.True(t, ok)
}

func TestMemory_Discard(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "abc", DonorID: 7}, t0.Add(time.Hour)))

	require.NoError(t, m.Discard(ctx, "s1"))
	_, err := m.Get(ctx, "s1", "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, m.Discard(ctx, "unknown"))
}

func TestMemory_PutRequiresSession(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	err := m.Put(context.Background(), "", domain.TokenEntry{Token: "abc"}, t0.Add(time.Hour))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMemory_SweepDropsExpiredTables(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "short", domain.TokenEntry{Token: "a", DonorID: 1}, t0.Add(time.Minute)))
	require.NoError(t, m.Put(ctx, "long", domain.TokenEntry{Token: "b", DonorID: 2}, t0.Add(time.Hour)))

	now = t0.Add(5 * time.Minute)
	m.sweep()

	m.mu.RLock()
	defer m.mu.RUnlock()
	assert.NotContains(t, m.tables, "short")
	assert.Contains(t, m.tables, "long")
}

func TestMemory_NewTableSurvivesSweepBeforeFirstWrite(t *testing.T) {
	now := t0
	m := newTestMemory(&now)

	tbl := m.table("s1", t0.Add(time.Hour))
	m.sweep()

	m.mu.RLock()
	assert.Same(t, tbl, m.tables["s1"])
	m.mu.RUnlock()

	// A later Put lands in the same table and stays resolvable.
	ctx := context.Background()
	require.NoError(t, m.Put(ctx, "s1", domain.TokenEntry{Token: "abc", DonorID: 7}, t0.Add(time.Hour)))
	e, err := m.Get(ctx, "s1", "abc")
	require.NoError(t, err)
	assert.Equal(t, domain.DonorID(7), e.DonorID)
}

func TestMemory_ConcurrentSameSession(t *testing.T) {
	now := t0
	m := newTestMemory(&now)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok := fmt.Sprintf("t%d", i)
			_ = m.Put(ctx, "s1", domain.TokenEntry{Token: tok, DonorID: domain.DonorID(i + 1)}, t0.Add(time.Hour))
			_, _ = m.Get(ctx, "s1", tok)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		e, err := m.Get(ctx, "s1", fmt.Sprintf("t%d", i))
		require.NoError(t, err)
		assert.Equal(t, domain.DonorID(i+1), e.DonorID)
	}
}
