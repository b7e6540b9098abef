package services

import (
	"sync"
	"time"
)

// Feed entry kinds, mirrored by the outbound command stream
const (
	FeedConnectionCreate = "connection.create"
	FeedConnectionLock   = "connection.lock"
	FeedNodeClick        = "node.click"
	FeedAdvisory         = "advisory"
	FeedDrawStart        = "draw.start"
)

// FeedEntry is one outbound command emitted by the gesture machine for the
// rendering collaborator to consume
type FeedEntry struct {
	Seq     int64     `json:"seq"`
	Kind    string    `json:"kind"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	NodeID  string    `json:"node_id,omitempty"`
	Click   string    `json:"click,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Feed is a bounded, monotonically numbered buffer of outbound commands.
// Consumers poll with their last seen sequence number; entries older than
// the buffer window are simply gone, which is fine for a transient UI feed.
type Feed struct {
	mu      sync.Mutex
	entries []FeedEntry
	next    int64
	limit   int
}

// NewFeed creates a feed retaining at most limit entries
func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = 256
	}
	return &Feed{limit: limit, next: 1}
}

// Append adds an entry, assigning its sequence number
func (f *Feed) Append(entry FeedEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry.Seq = f.next
	f.next++
	f.entries = append(f.entries, entry)
	if len(f.entries) > f.limit {
		f.entries = f.entries[len(f.entries)-f.limit:]
	}
}

// Since returns entries with a sequence number greater than seq
func (f *Feed) Since(seq int64) []FeedEntry {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []FeedEntry
	for _, e := range f.entries {
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}
