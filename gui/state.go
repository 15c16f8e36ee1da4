package gui

// stateMaxIdle is how many frames widget state survives without being
// read or written.
const stateMaxIdle = 600

type stateEntry struct {
	value any
	frame uint64
}

// stateStore keeps widget state between frames. Entries of widgets that
// stop being drawn are pruned after stateMaxIdle frames.
type stateStore struct {
	entries map[ID]stateEntry
	frame   uint64
}

func newStateStore() *stateStore {
	return &stateStore{entries: make(map[ID]stateEntry)}
}

func (s *stateStore) get(id ID) (any, bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	e.frame = s.frame
	s.entries[id] = e
	return e.value, true
}

func (s *stateStore) set(id ID, v any) {
	s.entries[id] = stateEntry{value: v, frame: s.frame}
}

// prune advances to frame and drops idle entries.
func (s *stateStore) prune(frame uint64) int {
	s.frame = frame
	n := 0
	for id, e := range s.entries {
		if frame-e.frame > stateMaxIdle {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// GetState returns the state stored under id, or defaultVal when there is
// none or it has another type.
func GetState[T any](ctx *Context, id ID, defaultVal T) T {
	if v, ok := ctx.state.get(id); ok {
		if typed, ok := v.(T); ok {
			return typed
		}
	}
	return defaultVal
}

// SetState stores state under id.
func SetState[T any](ctx *Context, id ID, value T) {
	ctx.state.set(id, value)
}

// DeleteState removes the state stored under id.
func DeleteState(ctx *Context, id ID) {
	delete(ctx.state.entries, id)
}

// StateLen returns the number of widget state entries held.
func (ctx *Context) StateLen() int {
	return len(ctx.state.entries)
}
