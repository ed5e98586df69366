package asset

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known assets keyed by mint.
type Registry struct {
	byMint   map[Pubkey]*Asset
	bySymbol map[string]*Asset
	mu       sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		byMint:   make(map[Pubkey]*Asset),
		bySymbol: make(map[string]*Asset),
	}
}

// Register adds an asset to the registry. Re-registering the same mint
// with different metadata is an error.
func (r *Registry) Register(a *Asset) error {
	if a == nil {
		return ErrNilAsset
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byMint[a.Mint()]; ok {
		if existing.Symbol() != a.Symbol() || existing.Decimals() != a.Decimals() {
			return fmt.Errorf("asset: mint %s already registered as %s/%d", a.Mint(), existing.Symbol(), existing.Decimals())
		}
		return nil
	}

	r.byMint[a.Mint()] = a
	r.bySymbol[a.Symbol()] = a
	return nil
}

// Get retrieves an asset by mint.
func (r *Registry) Get(mint Pubkey) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byMint[mint]
	return a, ok
}

// GetBySymbol retrieves the asset registered under symbol.
func (r *Registry) GetBySymbol(symbol string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySymbol[symbol]
	return a, ok
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byMint)
}
