package tokens

import (
	"sync"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// Fungible is an in-memory balance-only token ledger with allowances.
type Fungible struct {
	mu         sync.RWMutex
	balances   map[asset.Address]uint64
	allowances map[asset.Address]map[asset.Address]uint64
}

// NewFungible creates an empty fungible-token ledger.
func NewFungible() *Fungible {
	return &Fungible{
		balances:   make(map[asset.Address]uint64),
		allowances: make(map[asset.Address]map[asset.Address]uint64),
	}
}

// SupportsCapability implements asset.Contract.
func (f *Fungible) SupportsCapability(tag asset.Capability) bool {
	return tag == asset.CapFungible
}

// Mint credits owner with amount tokens.
func (f *Fungible) Mint(owner asset.Address, amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[owner] += amount
}

// BalanceOf implements asset.FungibleContract.
func (f *Fungible) BalanceOf(owner asset.Address) (uint64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.balances[owner], nil
}

// Approve sets spender's allowance over owner's balance.
func (f *Fungible) Approve(owner, spender asset.Address, amount uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	spenders := f.allowances[owner]
	if spenders == nil {
		spenders = make(map[asset.Address]uint64)
		f.allowances[owner] = spenders
	}
	spenders[spender] = amount
}

// Allowance implements asset.FungibleContract.
func (f *Fungible) Allowance(owner, spender asset.Address) (uint64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.allowances[owner][spender], nil
}

// TransferFrom implements asset.FungibleContract. A spender moving another
// holder's balance draws down its allowance; holders move their own balance
// without one.
func (f *Fungible) TransferFrom(spender, from, to asset.Address, amount uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.balances[from] < amount {
		return false, nil
	}
	if spender != from {
		granted := f.allowances[from][spender]
		if granted < amount {
			return false, nil
		}
		f.allowances[from][spender] = granted - amount
	}
	f.balances[from] -= amount
	f.balances[to] += amount
	return true, nil
}

// Transfer moves amount from one holder to another directly.
func (f *Fungible) Transfer(from, to asset.Address, amount uint64) bool {
	ok, _ := f.TransferFrom(from, from, to, amount)
	return ok
}
