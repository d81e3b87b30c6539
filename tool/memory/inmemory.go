package memory

import (
	"context"
	"sync"
)

// InMemoryBackend is a process-local Backend backed by a map. Useful for
// testing and for flows that don't need memory to survive a restart.
type InMemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewInMemoryBackend creates an empty InMemoryBackend.
func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{data: make(map[string]string)}
}

// Get implements Backend.
func (b *InMemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	value, found := b.data[key]
	return value, found, nil
}

// Set implements Backend.
func (b *InMemoryBackend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
	return nil
}

// Delete implements Backend.
func (b *InMemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}
