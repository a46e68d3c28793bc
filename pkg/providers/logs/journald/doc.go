// Package journald implements core.Store on top of libsystemd's sd-journal
// API via go-systemd's sdjournal package.
package journald
