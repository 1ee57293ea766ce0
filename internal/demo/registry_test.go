package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry(t *testing.T, idleTTL time.Duration) *Registry {
	t.Helper()
	factory := func(_ string, bt BusinessType) *Engine {
		return NewEngine(&queueClient{replies: []string{"ok"}}, testEngineConfig(bt))
	}
	r := NewRegistry(factory, idleTTL, nil, nil)
	t.Cleanup(r.Close)
	return r
}

func TestRegistryCreatesAndReturnsSessions(t *testing.T) {
	r := testRegistry(t, time.Minute)

	engine, id := r.Get("", BusinessPlumbing)
	require.NotNil(t, engine)
	require.NotEmpty(t, id)
	assert.Equal(t, BusinessPlumbing, engine.Snapshot().BusinessType)

	again, sameID := r.Get(id, BusinessDental)
	assert.Same(t, engine, again, "known id returns the existing engine")
	assert.Equal(t, id, sameID)
	assert.Equal(t, BusinessPlumbing, again.Snapshot().BusinessType, "existing session keeps its business type")

	assert.Equal(t, 1, r.Len())
}

func TestRegistryUnknownIDCreatesFresh(t *testing.T) {
	r := testRegistry(t, time.Minute)

	engine, id := r.Get("expired-or-bogus", BusinessHVAC)
	require.NotNil(t, engine)
	assert.NotEqual(t, "expired-or-bogus", id, "returned id is authoritative")
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLookup(t *testing.T) {
	r := testRegistry(t, time.Minute)

	_, ok := r.Lookup("nope")
	assert.False(t, ok)

	engine, id := r.Get("", BusinessGeneral)
	found, ok := r.Lookup(id)
	require.True(t, ok)
	assert.Same(t, engine, found)
}

func TestRegistryEvictsIdleSessions(t *testing.T) {
	r := testRegistry(t, 10*time.Millisecond)

	_, staleID := r.Get("", BusinessGeneral)
	require.Equal(t, 1, r.Len())

	time.Sleep(25 * time.Millisecond)
	r.evictIdle()

	assert.Zero(t, r.Len())
	_, ok := r.Lookup(staleID)
	assert.False(t, ok, "evicted session is gone; a new visit starts fresh")
}

func TestRegistryTouchKeepsSessionAlive(t *testing.T) {
	r := testRegistry(t, 50*time.Millisecond)

	_, id := r.Get("", BusinessGeneral)
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		_, _ = r.Get(id, BusinessGeneral)
	}
	r.evictIdle()
	assert.Equal(t, 1, r.Len(), "recently touched session survives eviction")
}
