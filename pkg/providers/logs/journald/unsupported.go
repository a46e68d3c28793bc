//go:build !linux || !cgo

package journald

import (
	"errors"
	"log/slog"

	"github.com/modoterra/journalreader/pkg/core"
)

// ErrUnsupported is returned by Open on builds without libsystemd access.
var ErrUnsupported = errors.New("journal access requires linux and cgo")

// Store is unavailable on this platform.
type Store struct {
	core.Store
}

// Open always fails on this platform.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	return nil, ErrUnsupported
}
