package quotes

import (
	"context"
	"strings"
	"sync"
)

// MemoryProvider is an in-memory Provider backed by a mutex-guarded map.
// Used in development mode and in tests where no external provider is
// reachable.
type MemoryProvider struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

var _ Provider = (*MemoryProvider)(nil)

// NewMemoryProvider creates an empty MemoryProvider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{quotes: make(map[string]Quote)}
}

// Set stores or replaces the quote for q.Symbol.
func (p *MemoryProvider) Set(q Quote) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes[strings.ToUpper(q.Symbol)] = q
}

// Lookup returns the stored quote for symbol, or ErrNotFound.
func (p *MemoryProvider) Lookup(_ context.Context, symbol string) (*Quote, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	q, ok := p.quotes[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, ErrNotFound
	}
	return &q, nil
}
