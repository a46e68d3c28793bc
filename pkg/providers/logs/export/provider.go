// Package export loads journal entries from `journalctl -o json` output,
// optionally zstd compressed, into an in-memory store.
package export

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"

	"github.com/modoterra/journalreader/pkg/core"
	"github.com/modoterra/journalreader/pkg/providers/logs/memory"
)

const (
	fieldRealtime = "__REALTIME_TIMESTAMP"
	fieldCursor   = "__CURSOR"

	maxLine = 16 * 1024 * 1024
)

// zstdMagic starts every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ErrNoTimestamp is returned for an entry without __REALTIME_TIMESTAMP.
var ErrNoTimestamp = errors.New("entry has no " + fieldRealtime)

// Open reads the export at path into a memory store.
func Open(path string, logger *slog.Logger) (*memory.Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("export loaded", "path", path, "entries", len(entries))
	return memory.New(entries), nil
}

// Read parses newline-delimited JSON entries from r, decompressing zstd
// input. Entries are returned in timestamp order.
func Read(r io.Reader) ([]core.Entry, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(len(zstdMagic))
	var src io.Reader = br
	if bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer dec.Close()
		src = dec
	}

	var (
		entries []core.Entry
		p       fastjson.Parser
		lineNo  int
	)
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := p.ParseBytes(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		e, err := parseEntry(v)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Realtime < entries[j].Realtime
	})
	return entries, nil
}

func parseEntry(v *fastjson.Value) (core.Entry, error) {
	obj, err := v.Object()
	if err != nil {
		return core.Entry{}, err
	}

	e := core.Entry{Fields: make(map[string][]byte)}
	var fieldErr error
	obj.Visit(func(key []byte, val *fastjson.Value) {
		if fieldErr != nil {
			return
		}
		name := string(key)
		data, ok, err := fieldValue(val)
		if err != nil {
			fieldErr = fmt.Errorf("field %s: %w", name, err)
			return
		}
		if !ok {
			return
		}
		switch {
		case name == fieldRealtime:
			usec, err := strconv.ParseUint(string(data), 10, 64)
			if err != nil {
				fieldErr = fmt.Errorf("field %s: %w", name, err)
				return
			}
			e.Realtime = usec
		case name == fieldCursor:
			e.Cursor = string(data)
		case strings.HasPrefix(name, "__"):
			// other address fields are not entry data
		default:
			e.Fields[name] = data
		}
	})
	if fieldErr != nil {
		return core.Entry{}, fieldErr
	}
	if obj.Get(fieldRealtime) == nil {
		return core.Entry{}, ErrNoTimestamp
	}
	return e, nil
}

// fieldValue decodes journald's JSON field encodings: a string, an array
// of byte values for binary data, or null for oversized values.
func fieldValue(v *fastjson.Value) ([]byte, bool, error) {
	switch v.Type() {
	case fastjson.TypeString:
		b, err := v.StringBytes()
		if err != nil {
			return nil, false, err
		}
		return append([]byte(nil), b...), true, nil
	case fastjson.TypeArray:
		arr, _ := v.Array()
		if len(arr) > 0 && arr[0].Type() != fastjson.TypeNumber {
			// Repeated field: journalctl emits every value, keep the first.
			return fieldValue(arr[0])
		}
		out := make([]byte, 0, len(arr))
		for _, item := range arr {
			n, err := item.Uint()
			if err != nil || n > 255 {
				return nil, false, fmt.Errorf("invalid byte value %s", item)
			}
			out = append(out, byte(n))
		}
		return out, true, nil
	case fastjson.TypeNull:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("unexpected %s value", v.Type())
	}
}
