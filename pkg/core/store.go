package core

// Store is the log-store capability set the walk engine drives.
// Positioning follows journald semantics: a seek places the read position
// between entries, and the following Next or Previous lands on an entry.
type Store interface {
	// SeekHead positions before the first entry.
	SeekHead() error

	// SeekTail positions after the last entry.
	SeekTail() error

	// SeekRealtime positions at the first entry whose timestamp is >= usec.
	SeekRealtime(usec uint64) error

	// SeekCursor positions at the entry named by cursor.
	SeekCursor(cursor string) error

	// Next advances one entry. It returns false at the end of the log.
	Next() (bool, error)

	// Previous steps back up to n entries and returns how many were stepped.
	Previous(n uint64) (uint64, error)

	// Cursor returns the cursor of the current entry.
	Cursor() (string, error)

	// TestCursor reports whether the current entry matches cursor.
	TestCursor(cursor string) (bool, error)

	// Field returns the value of a field of the current entry.
	// A missing field is reported with ok=false, never as an error.
	Field(name string) (value []byte, ok bool)

	// Realtime returns the wallclock timestamp of the current entry in microseconds.
	Realtime() (uint64, error)

	Close() error
}
