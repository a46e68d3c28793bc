package walk

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/modoterra/journalreader/pkg/core"
	"github.com/modoterra/journalreader/pkg/render"
)

// Options tune a Walker. The zero value is usable.
type Options struct {
	BufferSize int            // output buffer capacity, render.DefaultBufferSize if zero
	Location   *time.Location // timestamp zone, time.Local if nil
	Logger     *slog.Logger
}

// Stats summarizes a finished walk.
type Stats struct {
	Entries int
	Reboots int
	Bytes   int64
}

// Walker renders one walk over a store. It carries all per-run state
// and must not be reused for a second run.
type Walker struct {
	store    core.Store
	out      *render.Buffer
	renderer *render.Renderer
	logger   *slog.Logger

	leadingDone bool
	entries     int
}

// NewWalker returns a Walker reading from store and writing to sink.
func NewWalker(store core.Store, sink io.Writer, opts Options) *Walker {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	out := render.NewBuffer(sink, opts.BufferSize)
	return &Walker{
		store:    store,
		out:      out,
		renderer: render.NewRenderer(out, opts.Location),
		logger:   logger,
	}
}

// Run resolves sel and walks the store. See Walker.Walk.
func Run(store core.Store, sink io.Writer, sel Selection, opts Options) (Stats, error) {
	plan, err := Resolve(sel)
	if err != nil {
		return Stats{}, err
	}
	return NewWalker(store, sink, opts).Walk(plan)
}

// Walk positions the store per plan and writes the leading cursor, every
// entry in range, a reboot marker if the entry the walk ended on starts a
// new boot, and the final cursor. The last partial buffer is flushed only
// when the whole walk succeeds.
func (w *Walker) Walk(plan Plan) (Stats, error) {
	w.logger.Debug("positioning journal",
		"seek", plan.Seek, "back", plan.Back, "skip_first", plan.SkipFirst,
		"stop_at", plan.StopAt, "stop_cursor", plan.StopCursor)

	if err := plan.Position(w.store); err != nil {
		return w.stats(), err
	}

	if plan.SkipFirst {
		if _, err := w.store.Next(); err != nil {
			return w.stats(), fmt.Errorf("skip resume entry: %w", err)
		}
		if err := w.leadingCursor(); err != nil {
			return w.stats(), err
		}
	}

	if err := w.iterate(plan); err != nil {
		return w.stats(), err
	}

	if err := w.renderer.Reboot(w.store); err != nil {
		return w.stats(), err
	}
	if err := w.cursorLine(); err != nil {
		return w.stats(), err
	}
	if err := w.out.Flush(); err != nil {
		return w.stats(), err
	}

	st := w.stats()
	w.logger.Debug("walk finished", "entries", st.Entries, "reboots", st.Reboots, "bytes", st.Bytes)
	return st, nil
}

func (w *Walker) iterate(plan Plan) error {
	for {
		ok, err := w.store.Next()
		if err != nil {
			return fmt.Errorf("read next entry: %w", err)
		}
		if !ok {
			return nil
		}

		if plan.StopAt != 0 {
			usec, err := w.store.Realtime()
			if err != nil {
				return fmt.Errorf("read timestamp: %w", err)
			}
			if plan.stopsAt(usec) {
				return nil
			}
		}

		if err := w.leadingCursor(); err != nil {
			return err
		}

		if plan.StopCursor != "" {
			match, err := w.store.TestCursor(plan.StopCursor)
			if err != nil {
				return fmt.Errorf("test cursor: %w", err)
			}
			if match {
				return nil
			}
		}

		if err := w.renderer.Entry(w.store); err != nil {
			return err
		}
		w.entries++
	}
}

func (w *Walker) leadingCursor() error {
	if w.leadingDone {
		return nil
	}
	if err := w.cursorLine(); err != nil {
		return err
	}
	w.leadingDone = true
	return nil
}

func (w *Walker) cursorLine() error {
	cursor, err := w.store.Cursor()
	if err != nil {
		return fmt.Errorf("get cursor: %w", err)
	}
	if _, err := w.out.WriteString(cursor); err != nil {
		return err
	}
	_, err = w.out.Write([]byte{'\n'})
	return err
}

func (w *Walker) stats() Stats {
	return Stats{
		Entries: w.entries,
		Reboots: w.renderer.Reboots(),
		Bytes:   w.out.Written(),
	}
}
