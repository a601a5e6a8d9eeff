package convo

import "sync"

// Log is the append-only Context accumulator: exactly the Turn sequence sent
// to the model on each call. Each recursive round sees a strict append-only
// superset of the previous one.
type Log struct {
	mu    sync.Mutex
	turns []Turn
}

// NewLog returns an empty Context log.
func NewLog() *Log { return &Log{} }

// Append adds a Turn at the end of the log.
func (l *Log) Append(t Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, t)
}

// Snapshot returns a copy of the current turn sequence; later appends do not
// affect the returned slice.
func (l *Log) Snapshot() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len reports the number of turns appended so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.turns)
}
