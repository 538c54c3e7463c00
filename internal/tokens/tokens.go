// Package tokens provides in-memory reference implementations of the three
// collaborator asset contracts, plus a registry resolver. They back the trade
// engine tests and standalone mode; production deployments bridge to real
// registries through the asset.Resolver interface instead.
package tokens

import (
	"errors"
	"fmt"
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// Registry is an in-memory asset.Resolver. Contracts are registered under
// synthetic addresses assigned at deploy time.
type Registry struct {
	mu        sync.RWMutex
	contracts map[asset.Address]asset.Contract
	next      uint64
}

// NewRegistry creates an empty contract registry.
func NewRegistry() *Registry {
	return &Registry{contracts: make(map[asset.Address]asset.Contract)}
}

// Contract implements asset.Resolver.
func (r *Registry) Contract(addr asset.Address) (asset.Contract, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[addr]
	if !ok {
		return nil, asset.ErrUnknownContract
	}
	return c, nil
}

// DeployAt registers a contract under a caller-chosen address, as standalone
// mode does for the contracts named in its configuration.
func (r *Registry) DeployAt(addr asset.Address, c asset.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if addr.IsZero() {
		return errors.New("cannot deploy at the zero address")
	}
	if _, taken := r.contracts[addr]; taken {
		return fmt.Errorf("contract already deployed at %s", addr)
	}
	r.contracts[addr] = c
	return nil
}

// Deploy registers a contract and returns its synthetic address.
func (r *Registry) Deploy(c asset.Contract) asset.Address {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	var addr asset.Address
	// Addresses 0x...0001, 0x...0002, ... with a 0xc0 marker byte so they
	// are visually distinct from account addresses in test failures.
	addr[0] = 0xc0
	for i, v := 19, r.next; v > 0 && i > 0; i, v = i-1, v>>8 {
		addr[i] = byte(v)
	}
	r.contracts[addr] = c
	return addr
}

var errUnknownUnit = errors.New("unknown unit id")
