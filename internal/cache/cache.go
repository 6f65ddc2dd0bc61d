package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"uocsclub.net/aocboard/internal/types"
)

// TTL is how long a fetched leaderboard is served before going back to AoC.
// AoC asks clients not to poll a private leaderboard more often than this.
const TTL = 15 * time.Minute

type Entry struct {
	Data      *types.Leaderboard
	FetchedAt time.Time
}

// Cache maps year:code:owner to the last fetched leaderboard. Entries are
// only replaced, never evicted.
type Cache struct {
	clock   clockwork.Clock
	ttl     time.Duration
	entries map[string]Entry
	lock    sync.Mutex
}

func New(clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Cache{
		clock:   clock,
		ttl:     TTL,
		entries: map[string]Entry{},
	}
}

// Key scopes an entry to the leaderboard and to the owner that fetched it,
// so members sharing a board never overwrite each other's copy.
func Key(year string, code string, owner string) string {
	return year + ":" + code + ":" + owner
}

func (c *Cache) Get(key string) (Entry, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Fresh returns the entry only while it is younger than the TTL.
func (c *Cache) Fresh(key string) (Entry, bool) {
	entry, ok := c.Get(key)
	if !ok || !c.IsFresh(entry) {
		return Entry{}, false
	}
	return entry, true
}

func (c *Cache) IsFresh(entry Entry) bool {
	return c.clock.Since(entry.FetchedAt) < c.ttl
}

func (c *Cache) Put(key string, data *types.Leaderboard) Entry {
	entry := Entry{
		Data:      data,
		FetchedAt: c.clock.Now(),
	}

	c.lock.Lock()
	c.entries[key] = entry
	c.lock.Unlock()

	return entry
}

func (c *Cache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()

	return len(c.entries)
}
