package room

// requestLog is a bounded set of processed request ids with first-in
// first-out eviction: a map for membership plus a ring of insertion order.
type requestLog struct {
	capacity int
	seen     map[string]struct{}
	order    []string
	head     int
}

func newRequestLog(capacity int) *requestLog {
	return &requestLog{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
		order:    make([]string, 0, capacity),
	}
}

// Contains reports whether the id has been processed
func (l *requestLog) Contains(id string) bool {
	_, ok := l.seen[id]
	return ok
}

// Add records a processed id, evicting the oldest entry when full
func (l *requestLog) Add(id string) {
	if id == "" {
		return
	}
	if _, ok := l.seen[id]; ok {
		return
	}

	if len(l.order) < l.capacity {
		l.order = append(l.order, id)
	} else {
		delete(l.seen, l.order[l.head])
		l.order[l.head] = id
		l.head = (l.head + 1) % l.capacity
	}
	l.seen[id] = struct{}{}
}

// Len returns the number of tracked ids
func (l *requestLog) Len() int {
	return len(l.seen)
}
