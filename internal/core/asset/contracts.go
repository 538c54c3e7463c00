package asset

// Collaborator contract interfaces. The engine only ever consumes asset
// contracts through these; the production registries live outside this
// process and are bridged by a Resolver implementation.

// Contract is the minimal surface every asset contract exposes.
type Contract interface {
	// SupportsCapability reports whether the contract advertises the
	// given capability-introspection tag.
	SupportsCapability(tag Capability) bool
}

// UniqueContract is a unique-asset registry: one unit per id, one owner.
type UniqueContract interface {
	Contract

	// OwnerOf returns the current owner of the unit.
	OwnerOf(unit uint64) (Address, error)

	// GetApproved returns the per-unit approved operator, if any.
	GetApproved(unit uint64) (Address, error)

	// IsApprovedForAll reports whether operator may move any of owner's units.
	IsApprovedForAll(owner, operator Address) (bool, error)

	// TransferFrom moves the unit from one owner to another.
	TransferFrom(from, to Address, unit uint64) error
}

// MultiUnitContract is a multi-unit registry: per-id balances, divisible
// across owners.
type MultiUnitContract interface {
	Contract

	// BalanceOf returns owner's balance of the given unit id.
	BalanceOf(owner Address, unit uint64) (uint64, error)

	// IsApprovedForAll reports whether operator may move any of owner's units.
	IsApprovedForAll(owner, operator Address) (bool, error)

	// SafeTransferFrom moves quantity units of the given id.
	SafeTransferFrom(from, to Address, unit, quantity uint64, data []byte) error
}

// FungibleContract is a balance-only token ledger with no per-unit id.
type FungibleContract interface {
	Contract

	// BalanceOf returns owner's token balance.
	BalanceOf(owner Address) (uint64, error)

	// Allowance returns how much spender may move on owner's behalf.
	Allowance(owner, spender Address) (uint64, error)

	// TransferFrom moves amount tokens from one holder to another on
	// spender's authority, drawing down spender's allowance. A false
	// return is a failure signal.
	TransferFrom(spender, from, to Address, amount uint64) (bool, error)
}

// Resolver maps a contract address to its live contract binding.
type Resolver interface {
	// Contract returns the contract deployed at addr, or an error when
	// nothing is known at that address.
	Contract(addr Address) (Contract, error)
}
