package in_memory

import (
	"context"
	"sync"

	"github.com/tradeflow/reconengine/internal/domain"
	"github.com/tradeflow/reconengine/internal/port"
)

var _ port.StatusCache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	store map[string]*domain.Run
}

func NewCache() *Cache {
	return &Cache{store: make(map[string]*domain.Run)}
}

func (c *Cache) SetRun(ctx context.Context, run *domain.Run) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *run
	c.store[run.ID] = &cp
	return nil
}

func (c *Cache) GetRun(ctx context.Context, runID string) (*domain.Run, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	run, ok := c.store[runID]
	if !ok {
		return nil, nil
	}
	cp := *run
	return &cp, nil
}
