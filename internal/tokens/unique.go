package tokens

import (
	"errors"
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// Unique is an in-memory unique-asset registry (one owner per unit id).
type Unique struct {
	mu        sync.RWMutex
	owners    map[uint64]asset.Address
	approved  map[uint64]asset.Address
	operators map[asset.Address]map[asset.Address]bool
}

// NewUnique creates an empty unique-asset registry.
func NewUnique() *Unique {
	return &Unique{
		owners:    make(map[uint64]asset.Address),
		approved:  make(map[uint64]asset.Address),
		operators: make(map[asset.Address]map[asset.Address]bool),
	}
}

// SupportsCapability implements asset.Contract.
func (u *Unique) SupportsCapability(tag asset.Capability) bool {
	return tag == asset.CapUnique
}

// Mint assigns a fresh unit to owner.
func (u *Unique) Mint(owner asset.Address, unit uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, exists := u.owners[unit]; exists {
		return errors.New("unit already minted")
	}
	u.owners[unit] = owner
	return nil
}

// OwnerOf implements asset.UniqueContract.
func (u *Unique) OwnerOf(unit uint64) (asset.Address, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	owner, ok := u.owners[unit]
	if !ok {
		return asset.ZeroAddress, errUnknownUnit
	}
	return owner, nil
}

// GetApproved implements asset.UniqueContract.
func (u *Unique) GetApproved(unit uint64) (asset.Address, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.approved[unit], nil
}

// Approve grants a per-unit approval.
func (u *Unique) Approve(operator asset.Address, unit uint64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.approved[unit] = operator
}

// SetApprovalForAll grants or revokes an operator over all of owner's units.
func (u *Unique) SetApprovalForAll(owner, operator asset.Address, approved bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	ops := u.operators[owner]
	if ops == nil {
		ops = make(map[asset.Address]bool)
		u.operators[owner] = ops
	}
	ops[operator] = approved
}

// IsApprovedForAll implements asset.UniqueContract.
func (u *Unique) IsApprovedForAll(owner, operator asset.Address) (bool, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.operators[owner][operator], nil
}

// TransferFrom implements asset.UniqueContract.
func (u *Unique) TransferFrom(from, to asset.Address, unit uint64) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	owner, ok := u.owners[unit]
	if !ok {
		return errUnknownUnit
	}
	if owner != from {
		return errors.New("transfer from non-owner")
	}
	u.owners[unit] = to
	delete(u.approved, unit)
	return nil
}
