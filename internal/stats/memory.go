package stats

import (
	"context"
	"sync"
)

// Memory is an in-process Recorder. State is lost when the process exits.
type Memory struct {
	mu sync.RWMutex
	c  Counters
}

// NewMemory constructs an empty in-memory Recorder.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Record(ctx context.Context, o Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.add(o)
}

func (m *Memory) Counters(ctx context.Context) (Counters, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.c, nil
}
