package state

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// Clock stamps board mutations. The session id is random per process so a
// mirror viewer can tell a restarted editor apart from a stale one.
type Clock struct {
	session  string
	revision atomic.Uint64
}

func NewClock() *Clock {
	return &Clock{session: uuid.NewString()}
}

// Tick advances the revision and returns the new value.
func (c *Clock) Tick() uint64 {
	return c.revision.Add(1)
}

// Revision returns the latest revision handed out.
func (c *Clock) Revision() uint64 {
	return c.revision.Load()
}

func (c *Clock) Session() string {
	return c.session
}
