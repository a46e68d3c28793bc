// Package walk positions a journal store according to a range selection,
// walks it forward and renders every entry in range.
package walk

import (
	"errors"
	"fmt"
	"math"
)

// ErrConflict is returned for mutually exclusive range options.
var ErrConflict = errors.New("conflicting range options")

const usecPerSec = 1000 * 1000

// Selection is the requested range. Zero values mean "not set".
type Selection struct {
	Begin      uint64 // realtime usec, inclusive
	End        uint64 // realtime usec, exclusive
	FromCursor string // resume after this entry
	ToCursor   string // stop before this entry
	Tail       uint64 // only the last Tail entries
}

// Validate rejects option combinations that cannot be satisfied together:
// a tail count with a start bound, and two bounds for the same side.
func (s Selection) Validate() error {
	switch {
	case s.Tail != 0 && s.Begin != 0:
		return fmt.Errorf("%w: tail count and begin time", ErrConflict)
	case s.Tail != 0 && s.FromCursor != "":
		return fmt.Errorf("%w: tail count and start cursor", ErrConflict)
	case s.Begin != 0 && s.FromCursor != "":
		return fmt.Errorf("%w: begin time and start cursor", ErrConflict)
	case s.End != 0 && s.ToCursor != "":
		return fmt.Errorf("%w: end time and end cursor", ErrConflict)
	}
	return nil
}

// SecondsToUsec converts UNIX epoch seconds to microseconds.
func SecondsToUsec(sec uint64) (uint64, error) {
	if sec > math.MaxUint64/usecPerSec {
		return 0, fmt.Errorf("%d seconds is out of range", sec)
	}
	return sec * usecPerSec, nil
}
