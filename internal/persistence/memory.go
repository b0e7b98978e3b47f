package persistence

import (
	"context"
	"sync"
)

// MemoryGateway keeps the blob in process memory.
type MemoryGateway struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

// NewMemoryGateway returns an empty gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{}
}

// Load returns a copy of the last saved blob.
func (g *MemoryGateway) Load(ctx context.Context) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), g.data...), nil
}

// Save replaces the blob.
func (g *MemoryGateway) Save(ctx context.Context, blob []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.data = append([]byte(nil), blob...)
	g.saves++
	return nil
}

// Saves returns how many saves were received.
func (g *MemoryGateway) Saves() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.saves
}

// Close releases nothing.
func (g *MemoryGateway) Close() error {
	return nil
}
