// Package render turns journal entries into the fixed text layout and
// batches the result into fixed-size writes.
package render

import (
	"fmt"
	"io"
)

// DefaultBufferSize matches the page-sized writes journalreader has always issued.
const DefaultBufferSize = 4096

// Buffer accumulates output and hands it to the sink in full-capacity chunks.
// It holds at most cap(buf) bytes at any time. After a failed write every
// further call returns the same error.
type Buffer struct {
	sink    io.Writer
	buf     []byte
	written int64
	err     error
}

// NewBuffer returns a Buffer of the given capacity writing to sink.
// A non-positive size selects DefaultBufferSize.
func NewBuffer(sink io.Writer, size int) *Buffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Buffer{sink: sink, buf: make([]byte, 0, size)}
}

// Write appends p, flushing each time the buffer fills.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.err != nil {
		return 0, b.err
	}
	n := 0
	for len(p) > 0 {
		room := cap(b.buf) - len(b.buf)
		if room == 0 {
			if err := b.emit(); err != nil {
				return n, err
			}
			room = cap(b.buf)
		}
		chunk := min(room, len(p))
		b.buf = append(b.buf, p[:chunk]...)
		p = p[chunk:]
		n += chunk
	}
	return n, nil
}

// WriteString appends s.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Flush writes whatever is buffered, possibly nothing.
func (b *Buffer) Flush() error {
	if b.err != nil {
		return b.err
	}
	return b.emit()
}

// Buffered returns the number of bytes waiting to be flushed.
func (b *Buffer) Buffered() int { return len(b.buf) }

// Written returns the number of bytes handed to the sink so far.
func (b *Buffer) Written() int64 { return b.written }

// Err returns the first write error, if any.
func (b *Buffer) Err() error { return b.err }

func (b *Buffer) emit() error {
	if len(b.buf) == 0 {
		return nil
	}
	n, err := b.sink.Write(b.buf)
	b.written += int64(n)
	if err == nil && n < len(b.buf) {
		err = io.ErrShortWrite
	}
	if err != nil {
		b.err = fmt.Errorf("write output: %w", err)
		return b.err
	}
	b.buf = b.buf[:0]
	return nil
}
