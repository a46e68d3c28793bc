package render

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chunkWriter records every Write call.
type chunkWriter struct {
	bytes.Buffer
	chunks []int
}

func (w *chunkWriter) Write(p []byte) (int, error) {
	w.chunks = append(w.chunks, len(p))
	return w.Buffer.Write(p)
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) { return len(p) / 2, nil }

type failWriter struct{ err error }

func (w failWriter) Write([]byte) (int, error) { return 0, w.err }

func TestBufferHoldsUntilFull(t *testing.T) {
	sink := &chunkWriter{}
	b := NewBuffer(sink, 8)

	_, err := b.WriteString("abc")
	require.NoError(t, err)
	_, err = b.WriteString("defgh")
	require.NoError(t, err)
	assert.Empty(t, sink.chunks, "a buffer that is exactly full is not flushed yet")
	assert.Equal(t, 8, b.Buffered())

	_, err = b.WriteString("i")
	require.NoError(t, err)
	assert.Equal(t, []int{8}, sink.chunks)
	assert.Equal(t, 1, b.Buffered())

	require.NoError(t, b.Flush())
	assert.Equal(t, []int{8, 1}, sink.chunks)
	assert.Equal(t, "abcdefghi", sink.String())
	assert.Equal(t, int64(9), b.Written())
	assert.Zero(t, b.Buffered())
}

func TestBufferFlushEmpty(t *testing.T) {
	sink := &chunkWriter{}
	b := NewBuffer(sink, 8)
	require.NoError(t, b.Flush())
	assert.Empty(t, sink.chunks)
	assert.Zero(t, sink.Len())
}

func TestBufferLargeAppendMatchesSmallAppends(t *testing.T) {
	block := strings.Repeat("0123456789abcdefghijklmnopqrstuvwxyz\n", 50)

	for _, size := range []int{1, 7, 64, 100, len(block), len(block) + 1} {
		whole := &chunkWriter{}
		b := NewBuffer(whole, size)
		_, err := b.WriteString("lead:")
		require.NoError(t, err)
		n, err := b.WriteString(block)
		require.NoError(t, err)
		assert.Equal(t, len(block), n)
		require.NoError(t, b.Flush())

		pieces := &chunkWriter{}
		b = NewBuffer(pieces, size)
		_, err = b.WriteString("lead:")
		require.NoError(t, err)
		for i := 0; i < len(block); i += 3 {
			_, err := b.WriteString(block[i:min(i+3, len(block))])
			require.NoError(t, err)
		}
		require.NoError(t, b.Flush())

		assert.Equal(t, "lead:"+block, whole.String(), "size %d", size)
		assert.Equal(t, whole.String(), pieces.String(), "size %d", size)
		assert.Equal(t, whole.chunks, pieces.chunks, "size %d", size)
		for _, c := range whole.chunks[:len(whole.chunks)-1] {
			assert.Equal(t, size, c, "every write but the last is a full buffer")
		}
	}
}

func TestBufferDefaultSize(t *testing.T) {
	sink := &chunkWriter{}
	b := NewBuffer(sink, 0)
	_, err := b.Write(make([]byte, DefaultBufferSize+1))
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultBufferSize}, sink.chunks)
}

func TestBufferShortWrite(t *testing.T) {
	b := NewBuffer(shortWriter{}, 4)
	_, err := b.WriteString("abcdef")
	require.ErrorIs(t, err, io.ErrShortWrite)

	_, err = b.WriteString("x")
	require.ErrorIs(t, err, io.ErrShortWrite, "the buffer stays failed")
	require.ErrorIs(t, b.Flush(), io.ErrShortWrite)
	require.ErrorIs(t, b.Err(), io.ErrShortWrite)
}

func TestBufferSinkError(t *testing.T) {
	boom := errors.New("broken pipe")
	b := NewBuffer(failWriter{err: boom}, 16)

	_, err := b.WriteString("fits")
	require.NoError(t, err)
	require.ErrorIs(t, b.Flush(), boom)
}
