package db

import "sync"

// MemoryProvider implements DatabaseProvider in memory, for tests and
// ephemeral dev nodes
type MemoryProvider struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{data: make(map[string][]byte)}
}

func (p *MemoryProvider) Get(key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.data[string(key)]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (p *MemoryProvider) Put(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	p.data[string(key)] = stored
	return nil
}

func (p *MemoryProvider) Delete(key []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.data, string(key))
	return nil
}

func (p *MemoryProvider) Has(key []byte) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.data[string(key)]
	return ok, nil
}

func (p *MemoryProvider) Close() error {
	return nil
}
