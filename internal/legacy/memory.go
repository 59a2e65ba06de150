package legacy

import (
	"context"
	"sync"
)

// Memory is an in-process slot. It backs the "memory" legacy backend and
// stands in for the real slots in tests.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns a slot pre-filled with entries.
func NewMemory(entries ...Entry) *Memory {
	m := &Memory{}
	m.entries = append(m.entries, entries...)
	return m
}

// Read returns a copy of the cached entries.
func (m *Memory) Read(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...), nil
}

// Write replaces the cached entries with a copy of entries.
func (m *Memory) Write(ctx context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	return nil
}

// Clear empties the slot.
func (m *Memory) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
