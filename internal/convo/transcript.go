package convo

import (
	"sync"
	"time"

	"github.com/obsidian-exchange/clerk-go/internal/market"
)

// Entry is one user-visible transcript line. An attachment-only entry has
// empty Text and a non-empty Items list.
type Entry struct {
	Role  Role          `json:"role"`
	Text  string        `json:"text"`
	Time  time.Time     `json:"time"`
	Items []market.Item `json:"items,omitempty"`
}

// Transcript is the append-only user-visible message log. Notify, when set,
// runs synchronously after every append; it is the caller's cue hook
// (persistence, UI sound) and must not block.
type Transcript struct {
	mu      sync.Mutex
	entries []Entry
	Notify  func(Entry)
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript { return &Transcript{} }

// Append records an entry, stamping it with the current time when unset.
func (t *Transcript) Append(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	t.mu.Lock()
	t.entries = append(t.entries, e)
	notify := t.Notify
	t.mu.Unlock()
	if notify != nil {
		notify(e)
	}
}

// AppendText records a plain text entry.
func (t *Transcript) AppendText(role Role, text string) {
	t.Append(Entry{Role: role, Text: text})
}

// AppendItems records an attachment-only entry: empty text, non-empty items.
func (t *Transcript) AppendItems(items []market.Item) {
	t.Append(Entry{Role: RoleModel, Items: items})
}

// Snapshot returns a copy of the entries in order.
func (t *Transcript) Snapshot() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len reports the number of entries appended so far.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
