package core

import "errors"

// Journal field names consulted when rendering.
const (
	FieldBootID           = "_BOOT_ID"
	FieldHostname         = "_HOSTNAME"
	FieldPID              = "_PID"
	FieldSyslogIdentifier = "SYSLOG_IDENTIFIER"
	FieldComm             = "_COMM"
	FieldMessage          = "MESSAGE"
)

var (
	// ErrNoEntry is returned when an operation needs a current entry and there is none.
	ErrNoEntry = errors.New("no current journal entry")

	// ErrCursorNotFound is returned by stores that cannot seek to an unknown cursor.
	ErrCursorNotFound = errors.New("cursor not found")
)
