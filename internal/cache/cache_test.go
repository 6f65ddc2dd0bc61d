package cache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uocsclub.net/aocboard/internal/types"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "2024:123456-abcdef:ab12", Key("2024", "123456-abcdef", "ab12"))
}

func TestFreshness(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock)
	key := Key("2024", "42", "owner")

	_, ok := c.Fresh(key)
	assert.False(t, ok)

	doc := &types.Leaderboard{Event: "2024"}
	c.Put(key, doc)

	entry, ok := c.Fresh(key)
	require.True(t, ok)
	assert.Same(t, doc, entry.Data)
	assert.Equal(t, clock.Now(), entry.FetchedAt)

	clock.Advance(TTL - time.Second)
	_, ok = c.Fresh(key)
	assert.True(t, ok)

	// exactly 15 minutes old is stale
	clock.Advance(time.Second)
	_, ok = c.Fresh(key)
	assert.False(t, ok)

	// stale entries stay readable until overwritten
	entry, ok = c.Get(key)
	require.True(t, ok)
	assert.Same(t, doc, entry.Data)
}

func TestPutOverwrites(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock)
	key := Key("2023", "7", "a")

	c.Put(key, &types.Leaderboard{Event: "old"})
	clock.Advance(TTL + time.Minute)
	c.Put(key, &types.Leaderboard{Event: "new"})

	entry, ok := c.Fresh(key)
	require.True(t, ok)
	assert.Equal(t, "new", entry.Data.Event)
	assert.Equal(t, clock.Now(), entry.FetchedAt)
	assert.Equal(t, 1, c.Len())

	c.Put(Key("2022", "7", "a"), &types.Leaderboard{})
	assert.Equal(t, 2, c.Len())
}

func TestOwnersKeepSeparateEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock)

	first := &types.Leaderboard{Event: "first"}
	c.Put(Key("2024", "42", "a"), first)
	c.Put(Key("2024", "42", "b"), &types.Leaderboard{Event: "second"})

	entry, ok := c.Fresh(Key("2024", "42", "a"))
	require.True(t, ok)
	assert.Same(t, first, entry.Data)
	assert.Equal(t, 2, c.Len())
}
