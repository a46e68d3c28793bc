//go:build linux && cgo

package journald

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/sdjournal"
)

// Store reads the systemd journal through libsystemd.
type Store struct {
	j      *sdjournal.Journal
	logger *slog.Logger
}

// Open opens the local journal, or the journal files in dir if dir is set.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	var (
		j   *sdjournal.Journal
		err error
	)
	if dir == "" {
		j, err = sdjournal.NewJournal()
	} else {
		j, err = sdjournal.NewJournalFromDir(dir)
	}
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	logger.Debug("journal opened", "directory", dir)
	return &Store{j: j, logger: logger}, nil
}

func (s *Store) SeekHead() error { return s.j.SeekHead() }

func (s *Store) SeekTail() error { return s.j.SeekTail() }

func (s *Store) SeekRealtime(usec uint64) error { return s.j.SeekRealtimeUsec(usec) }

func (s *Store) SeekCursor(cursor string) error { return s.j.SeekCursor(cursor) }

func (s *Store) Next() (bool, error) {
	n, err := s.j.Next()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) Previous(n uint64) (uint64, error) {
	return s.j.PreviousSkip(n)
}

func (s *Store) Cursor() (string, error) { return s.j.GetCursor() }

func (s *Store) TestCursor(cursor string) (bool, error) {
	err := s.j.TestCursor(cursor)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sdjournal.ErrNoTestCursor):
		return false, nil
	default:
		return false, err
	}
}

// Field returns the raw value of name. libsystemd reports a missing field
// as an error, which is treated as absence.
func (s *Store) Field(name string) ([]byte, bool) {
	v, err := s.j.GetDataValueBytes(name)
	if err != nil {
		return nil, false
	}
	return v, true
}

func (s *Store) Realtime() (uint64, error) { return s.j.GetRealtimeUsec() }

func (s *Store) Close() error {
	if err := s.j.Close(); err != nil {
		return fmt.Errorf("close journal: %w", err)
	}
	s.logger.Debug("journal closed")
	return nil
}
