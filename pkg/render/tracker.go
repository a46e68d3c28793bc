package render

import (
	"bytes"
	"time"
)

// RebootMarker is emitted between two entries whose boot IDs differ.
const RebootMarker = "-- Reboot --\n"

// TimestampLayout renders as a fixed 15 characters, e.g. "Mar 04 09:15:02".
const TimestampLayout = "Jan 02 15:04:05"

const usecPerSec = 1000 * 1000

// BootTracker detects changes of the boot ID across successive entries.
type BootTracker struct {
	last []byte
	set  bool
}

// Observe records the boot ID of the next entry and reports whether it
// differs from the previous one. An absent ID leaves the state untouched.
func (t *BootTracker) Observe(id []byte, ok bool) bool {
	if !ok {
		return false
	}
	if !t.set {
		t.last = append(t.last[:0], id...)
		t.set = true
		return false
	}
	if bytes.Equal(t.last, id) {
		return false
	}
	t.last = append(t.last[:0], id...)
	return true
}

// Clock formats entry timestamps, reusing the last string while entries
// stay within the same second.
type Clock struct {
	loc    *time.Location
	sec    uint64
	cached string
}

// NewClock returns a Clock rendering in loc. A nil loc means time.Local.
func NewClock(loc *time.Location) *Clock {
	if loc == nil {
		loc = time.Local
	}
	return &Clock{loc: loc}
}

// Format returns the 15-character local time for usec.
func (c *Clock) Format(usec uint64) string {
	sec := usec / usecPerSec
	if c.cached == "" || sec != c.sec {
		c.cached = time.Unix(int64(sec), 0).In(c.loc).Format(TimestampLayout)
		c.sec = sec
	}
	return c.cached
}
