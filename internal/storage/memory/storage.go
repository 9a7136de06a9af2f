package memory

import (
	"context"
	"sync"

	"github.com/mcoot/nexus/internal/model"
	"github.com/mcoot/nexus/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu    sync.RWMutex
	state *model.State
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		state: model.NewState(),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) Load(ctx context.Context) (*model.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone(), nil
}

func (s *Storage) Update(ctx context.Context, fn func(state *model.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

func (s *Storage) Close() error {
	return nil
}
