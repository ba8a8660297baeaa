package logging

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const defaultCapacity = 50

// Buffer is a bounded in-memory log ring shared between the scheduler thread
// and request handlers. Entries are kept newest-first; appends and snapshots
// are mutex-guarded. Every entry is also written to the process log.
type Buffer struct {
	mu      sync.Mutex
	entries []string
	cap     int
}

func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Buffer{cap: capacity}
}

// Add formats and prepends a timestamped entry, trimming the oldest entry
// once the buffer is full.
func (b *Buffer) Add(format string, args ...any) {
	entry := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	log.Println(entry)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append([]string{entry}, b.entries...)
	if len(b.entries) > b.cap {
		b.entries = b.entries[:b.cap]
	}
}

// Snapshot returns a copy of the current entries, newest first. Callers never
// see the live slice.
func (b *Buffer) Snapshot() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, len(b.entries))
	copy(out, b.entries)
	return out
}
