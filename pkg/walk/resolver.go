package walk

import (
	"fmt"

	"github.com/modoterra/journalreader/pkg/core"
)

// SeekKind is the initial seek a Plan performs.
type SeekKind int

const (
	SeekHead SeekKind = iota
	SeekTail
	SeekRealtime
	SeekCursor
)

func (k SeekKind) String() string {
	switch k {
	case SeekHead:
		return "head"
	case SeekTail:
		return "tail"
	case SeekRealtime:
		return "realtime"
	case SeekCursor:
		return "cursor"
	default:
		return fmt.Sprintf("SeekKind(%d)", int(k))
	}
}

// Plan is a resolved Selection: where to start and when to stop.
type Plan struct {
	Seek     SeekKind
	Realtime uint64 // for SeekRealtime
	Cursor   string // for SeekCursor

	// Back is the number of entries to step back after seeking. If the
	// head is reached first, the walk starts from the head instead.
	Back uint64

	// SkipFirst consumes the sought entry without rendering it.
	SkipFirst bool

	StopAt     uint64 // stop at the first entry with timestamp >= StopAt
	StopCursor string // stop at the entry matching StopCursor
}

// Resolve validates sel and maps it to a Plan.
func Resolve(sel Selection) (Plan, error) {
	if err := sel.Validate(); err != nil {
		return Plan{}, err
	}

	p := Plan{StopAt: sel.End, StopCursor: sel.ToCursor}

	if sel.Tail != 0 {
		// Seeking the tail or a timestamp leaves the position between
		// entries, so reaching the first of the last N takes N+1 steps.
		// A cursor seek lands on the end entry itself, which is not
		// rendered, so one more step is needed.
		p.Back = sel.Tail + 1
		switch {
		case sel.ToCursor != "":
			p.Seek, p.Cursor = SeekCursor, sel.ToCursor
			p.Back++
		case sel.End != 0:
			p.Seek, p.Realtime = SeekRealtime, sel.End
		default:
			p.Seek = SeekTail
		}
		return p, nil
	}

	switch {
	case sel.FromCursor != "":
		p.Seek, p.Cursor = SeekCursor, sel.FromCursor
		p.SkipFirst = true
	case sel.Begin != 0:
		p.Seek, p.Realtime = SeekRealtime, sel.Begin
	default:
		p.Seek = SeekHead
	}
	return p, nil
}

// Position moves s to the plan's starting point.
func (p Plan) Position(s core.Store) error {
	var err error
	switch p.Seek {
	case SeekHead:
		err = s.SeekHead()
	case SeekTail:
		err = s.SeekTail()
	case SeekRealtime:
		err = s.SeekRealtime(p.Realtime)
	case SeekCursor:
		err = s.SeekCursor(p.Cursor)
	default:
		err = fmt.Errorf("unknown seek %v", p.Seek)
	}
	if err != nil {
		return fmt.Errorf("seek to %s: %w", p.Seek, err)
	}

	if p.Back == 0 {
		return nil
	}
	stepped, err := s.Previous(p.Back)
	if err != nil {
		return fmt.Errorf("seek back %d entries: %w", p.Back, err)
	}
	if stepped < p.Back {
		// Fewer entries than requested before the end bound.
		if err := s.SeekHead(); err != nil {
			return fmt.Errorf("seek to head: %w", err)
		}
	}
	return nil
}

// stopsAt reports whether an entry with timestamp usec lies past the end bound.
func (p Plan) stopsAt(usec uint64) bool {
	return p.StopAt != 0 && usec >= p.StopAt
}
