package export

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modoterra/journalreader/pkg/core"
)

const sample = `{"__CURSOR":"s=abc;i=1","__REALTIME_TIMESTAMP":"1709543702000000","__MONOTONIC_TIMESTAMP":"12","_BOOT_ID":"b1","_HOSTNAME":"h","SYSLOG_IDENTIFIER":"svc","_PID":"42","MESSAGE":"hello"}
{"__CURSOR":"s=abc;i=2","__REALTIME_TIMESTAMP":"1709543703000000","_BOOT_ID":"b1","_HOSTNAME":"h","_COMM":"bin","MESSAGE":[104,105,0,255]}

{"__CURSOR":"s=abc;i=3","__REALTIME_TIMESTAMP":"1709543704000000","_BOOT_ID":"b1","_HOSTNAME":"h","MESSAGE":null,"TAG":["first","second"]}
`

func TestReadEntries(t *testing.T) {
	entries, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	e := entries[0]
	assert.Equal(t, "s=abc;i=1", e.Cursor)
	assert.Equal(t, uint64(1709543702000000), e.Realtime)
	assert.Equal(t, []byte("hello"), e.Fields[core.FieldMessage])
	assert.Equal(t, []byte("42"), e.Fields[core.FieldPID])
	assert.NotContains(t, e.Fields, "__MONOTONIC_TIMESTAMP")
	assert.NotContains(t, e.Fields, "__CURSOR")

	assert.Equal(t, []byte{'h', 'i', 0, 255}, entries[1].Fields[core.FieldMessage], "binary fields arrive as byte arrays")

	_, ok := entries[2].Field(core.FieldMessage)
	assert.False(t, ok, "null values are absent")
	assert.Equal(t, []byte("first"), entries[2].Fields["TAG"])
}

func TestReadZstd(t *testing.T) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, enc.Close())

	entries, err := Read(&buf)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestReadSortsByTimestamp(t *testing.T) {
	in := `{"__REALTIME_TIMESTAMP":"30","MESSAGE":"c"}
{"__REALTIME_TIMESTAMP":"10","MESSAGE":"a"}
{"__REALTIME_TIMESTAMP":"20","MESSAGE":"b"}
`
	entries, err := Read(strings.NewReader(in))
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, string(e.Fields[core.FieldMessage]))
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"not json", "{nope\n", "line 1"},
		{"not an object", "[1,2]\n", "line 1"},
		{"missing timestamp", `{"MESSAGE":"x"}` + "\n", "no __REALTIME_TIMESTAMP"},
		{"bad timestamp", `{"__REALTIME_TIMESTAMP":"soon"}` + "\n", "__REALTIME_TIMESTAMP"},
		{"bad byte", `{"__REALTIME_TIMESTAMP":"1","MESSAGE":[1,300]}` + "\n", "invalid byte"},
		{"number field", `{"__REALTIME_TIMESTAMP":"1","_PID":42}` + "\n", "_PID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	s, err := Open(path, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer s.Close()
	require.Equal(t, 3, s.Len())

	require.NoError(t, s.SeekCursor("s=abc;i=2"))
	ok, err := s.Next()
	require.NoError(t, err)
	require.True(t, ok)
	comm, ok := s.Field(core.FieldComm)
	require.True(t, ok)
	assert.Equal(t, "bin", string(comm))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.json"), slog.New(slog.DiscardHandler))
	require.ErrorIs(t, err, os.ErrNotExist)
}
