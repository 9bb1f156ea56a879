package testutil

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/studyplan/internal/domain"
)

// Now is the default instant used by fixtures: a Wednesday inside the
// first plan week.
var Now = time.Date(2026, 1, 14, 9, 30, 0, 0, time.UTC)

// FixedClock returns a settable instant.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// SeqIDs mints predictable ids: <kind>-<stamp>-<9-digit counter>.
type SeqIDs struct {
	Stamp int64
	n     atomic.Int64
}

func (g *SeqIDs) NewID(kind domain.IDKind) domain.TaskID {
	n := g.n.Add(1)
	stamp := g.Stamp
	if stamp == 0 {
		stamp = Now.UnixMilli()
	}
	return domain.TaskID{Kind: kind, Stamp: stamp, Nonce: fmt.Sprintf("%09d", n)}
}
