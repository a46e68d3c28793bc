package render

import (
	"fmt"
	"io"
	"time"

	"github.com/modoterra/journalreader/pkg/core"
)

// UnknownIdentifier stands in for entries with neither SYSLOG_IDENTIFIER nor _COMM.
const UnknownIdentifier = "unknown"

// Renderer formats the store's current entry as
//
//	<timestamp> <hostname> <identifier>[<pid>]: <message>
//
// preceded by RebootMarker when the boot ID changed since the last entry.
// Field values are copied byte for byte.
type Renderer struct {
	out     io.Writer
	boots   BootTracker
	clock   *Clock
	line    []byte
	reboots int
}

// NewRenderer returns a Renderer writing to out with timestamps in loc.
func NewRenderer(out io.Writer, loc *time.Location) *Renderer {
	return &Renderer{out: out, clock: NewClock(loc)}
}

// Reboots returns how many reboot markers have been written.
func (r *Renderer) Reboots() int { return r.reboots }

// Reboot writes RebootMarker if the current entry starts a new boot.
func (r *Renderer) Reboot(s core.Store) error {
	r.line = r.appendReboot(r.line[:0], s)
	return r.flushLine()
}

// Entry writes the current entry as one line.
func (r *Renderer) Entry(s core.Store) error {
	usec, err := s.Realtime()
	if err != nil {
		return fmt.Errorf("read timestamp: %w", err)
	}

	b := r.appendReboot(r.line[:0], s)
	b = append(b, r.clock.Format(usec)...)
	b = append(b, ' ')
	if host, ok := s.Field(core.FieldHostname); ok {
		b = append(b, host...)
	}
	b = append(b, ' ')
	b = append(b, identifier(s)...)
	if pid, ok := s.Field(core.FieldPID); ok {
		b = append(b, '[')
		b = append(b, pid...)
		b = append(b, ']')
	}
	b = append(b, ':', ' ')
	if msg, ok := s.Field(core.FieldMessage); ok {
		b = append(b, msg...)
	}
	b = append(b, '\n')

	r.line = b
	return r.flushLine()
}

func (r *Renderer) appendReboot(b []byte, s core.Store) []byte {
	id, ok := s.Field(core.FieldBootID)
	if r.boots.Observe(id, ok) {
		r.reboots++
		b = append(b, RebootMarker...)
	}
	return b
}

func (r *Renderer) flushLine() error {
	if len(r.line) == 0 {
		return nil
	}
	_, err := r.out.Write(r.line)
	return err
}

func identifier(s core.Store) []byte {
	if id, ok := s.Field(core.FieldSyslogIdentifier); ok {
		return id
	}
	if comm, ok := s.Field(core.FieldComm); ok {
		return comm
	}
	return []byte(UnknownIdentifier)
}
