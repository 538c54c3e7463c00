package tokens

import (
	"errors"
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// MultiUnit is an in-memory multi-unit registry (per-id divisible balances).
type MultiUnit struct {
	mu        sync.RWMutex
	balances  map[uint64]map[asset.Address]uint64
	operators map[asset.Address]map[asset.Address]bool
}

// NewMultiUnit creates an empty multi-unit registry.
func NewMultiUnit() *MultiUnit {
	return &MultiUnit{
		balances:  make(map[uint64]map[asset.Address]uint64),
		operators: make(map[asset.Address]map[asset.Address]bool),
	}
}

// SupportsCapability implements asset.Contract.
func (m *MultiUnit) SupportsCapability(tag asset.Capability) bool {
	return tag == asset.CapMultiUnit
}

// Mint credits owner with quantity units of the given id.
func (m *MultiUnit) Mint(owner asset.Address, unit, quantity uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	holders := m.balances[unit]
	if holders == nil {
		holders = make(map[asset.Address]uint64)
		m.balances[unit] = holders
	}
	holders[owner] += quantity
}

// BalanceOf implements asset.MultiUnitContract.
func (m *MultiUnit) BalanceOf(owner asset.Address, unit uint64) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[unit][owner], nil
}

// SetApprovalForAll grants or revokes an operator over all of owner's units.
func (m *MultiUnit) SetApprovalForAll(owner, operator asset.Address, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ops := m.operators[owner]
	if ops == nil {
		ops = make(map[asset.Address]bool)
		m.operators[owner] = ops
	}
	ops[operator] = approved
}

// IsApprovedForAll implements asset.MultiUnitContract.
func (m *MultiUnit) IsApprovedForAll(owner, operator asset.Address) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.operators[owner][operator], nil
}

// SafeTransferFrom implements asset.MultiUnitContract.
func (m *MultiUnit) SafeTransferFrom(from, to asset.Address, unit, quantity uint64, _ []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	holders := m.balances[unit]
	if holders == nil || holders[from] < quantity {
		return errors.New("insufficient unit balance")
	}
	holders[from] -= quantity
	holders[to] += quantity
	return nil
}
