// Package memory provides an in-memory journal store with journald's
// positioning semantics.
package memory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/modoterra/journalreader/pkg/core"
)

// Store holds entries in timestamp order. It is not safe for concurrent use.
type Store struct {
	entries []core.Entry
	cur     int
	seek    *seekPos
	closed  bool
}

// seekPos records where the next step lands after a seek.
type seekPos struct {
	next int
	prev int
}

// New returns a Store over entries, which must be in timestamp order.
// Entries without a cursor get one synthesized from their position.
func New(entries []core.Entry) *Store {
	seqnumID := strings.ReplaceAll(uuid.NewString(), "-", "")
	s := &Store{entries: make([]core.Entry, len(entries)), cur: -1}
	for i, e := range entries {
		if e.Cursor == "" {
			e.Cursor = synthCursor(seqnumID, i, e)
		}
		s.entries[i] = e
	}
	s.seek = &seekPos{next: 0, prev: -1}
	return s
}

func synthCursor(seqnumID string, i int, e core.Entry) string {
	return fmt.Sprintf("s=%s;i=%x;b=%s;t=%x", seqnumID, i+1, e.Fields[core.FieldBootID], e.Realtime)
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns the stored entries with their cursors filled in.
func (s *Store) Entries() []core.Entry { return s.entries }

func (s *Store) SeekHead() error {
	s.setSeek(0, -1)
	return nil
}

func (s *Store) SeekTail() error {
	s.setSeek(len(s.entries), len(s.entries)-1)
	return nil
}

// SeekRealtime lands Next on the first entry at or after usec and
// Previous on the last entry before it.
func (s *Store) SeekRealtime(usec uint64) error {
	i := sort.Search(len(s.entries), func(i int) bool {
		return s.entries[i].Realtime >= usec
	})
	s.setSeek(i, i-1)
	return nil
}

// SeekCursor lands both Next and Previous on the entry named by cursor.
func (s *Store) SeekCursor(cursor string) error {
	for i, e := range s.entries {
		if e.Cursor == cursor {
			s.setSeek(i, i)
			return nil
		}
	}
	return fmt.Errorf("seek %q: %w", cursor, core.ErrCursorNotFound)
}

func (s *Store) setSeek(next, prev int) {
	s.cur = -1
	s.seek = &seekPos{next: next, prev: prev}
}

func (s *Store) Next() (bool, error) {
	if s.closed {
		return false, ErrClosed
	}
	if s.seek != nil {
		if s.seek.next >= len(s.entries) {
			return false, nil
		}
		s.cur = s.seek.next
		s.seek = nil
		return true, nil
	}
	if s.cur+1 >= len(s.entries) {
		return false, nil
	}
	s.cur++
	return true, nil
}

func (s *Store) Previous(n uint64) (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	var stepped uint64
	for ; stepped < n; stepped++ {
		if !s.prev() {
			break
		}
	}
	return stepped, nil
}

func (s *Store) prev() bool {
	if s.seek != nil {
		if s.seek.prev < 0 {
			return false
		}
		s.cur = s.seek.prev
		s.seek = nil
		return true
	}
	if s.cur <= 0 {
		return false
	}
	s.cur--
	return true
}

func (s *Store) current() (core.Entry, error) {
	if s.closed {
		return core.Entry{}, ErrClosed
	}
	if s.cur < 0 {
		return core.Entry{}, core.ErrNoEntry
	}
	return s.entries[s.cur], nil
}

func (s *Store) Cursor() (string, error) {
	e, err := s.current()
	if err != nil {
		return "", err
	}
	return e.Cursor, nil
}

func (s *Store) TestCursor(cursor string) (bool, error) {
	e, err := s.current()
	if err != nil {
		return false, err
	}
	return e.Cursor == cursor, nil
}

func (s *Store) Field(name string) ([]byte, bool) {
	e, err := s.current()
	if err != nil {
		return nil, false
	}
	return e.Field(name)
}

func (s *Store) Realtime() (uint64, error) {
	e, err := s.current()
	if err != nil {
		return 0, err
	}
	return e.Realtime, nil
}

func (s *Store) Close() error {
	s.closed = true
	return nil
}

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("memory store closed")
