//go:build linux && cgo

package journald

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDirectory(t *testing.T) {
	s, err := Open(t.TempDir(), slog.New(slog.DiscardHandler))
	if err != nil {
		t.Skipf("libsystemd unavailable: %v", err)
	}
	defer s.Close()

	require.NoError(t, s.SeekHead())
	ok, err := s.Next()
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok = s.Field("MESSAGE")
	assert.False(t, ok)

	_, err = s.Cursor()
	assert.Error(t, err)
}
