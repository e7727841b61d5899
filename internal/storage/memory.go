package storage

import (
	"context"
	"sync"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	state     *model.State
	offset    int
	hasOffset bool
	saves     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*model.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, ErrNotFound
	}
	return m.state.Clone(), nil
}

func (m *MemoryStore) Save(ctx context.Context, s *model.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	m.saves++
	return nil
}

func (m *MemoryStore) LoadOffset(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.hasOffset {
		return 0, ErrNotFound
	}
	return m.offset, nil
}

func (m *MemoryStore) SaveOffset(ctx context.Context, offset int) error {
	m.mu.Lock()
	m.offset = offset
	m.hasOffset = true
	m.mu.Unlock()
	return nil
}

// Saves reports how many snapshots have been written.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *MemoryStore) Close() error { return nil }
