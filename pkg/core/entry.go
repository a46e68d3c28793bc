package core

// Entry is a single journal record held in memory.
type Entry struct {
	Realtime uint64            `json:"realtime_usec"`
	Cursor   string            `json:"cursor,omitempty"`
	Fields   map[string][]byte `json:"fields"`
}

// Field returns the named field, ok=false when absent.
func (e Entry) Field(name string) ([]byte, bool) {
	v, ok := e.Fields[name]
	return v, ok
}
