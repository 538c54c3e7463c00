package asset

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// defaultClassCacheSize bounds the capability-classification cache. Deployed
// contracts never change their advertised capabilities, so entries stay valid
// for the contract's lifetime.
const defaultClassCacheSize = 4096

// Handler performs ownership checks and transfer execution uniformly across
// the three transfer standards. All higher-level code is protocol-agnostic:
// it asks the handler, never the contracts directly.
type Handler struct {
	resolver Resolver

	// operator is the account the engine operates as; approvals and
	// allowances are checked against it.
	operator Address

	classes *lru.Cache[Address, Class]
}

// NewHandler creates a handler that resolves contracts through resolver and
// checks approvals against the given operator account.
func NewHandler(resolver Resolver, operator Address) *Handler {
	cache, err := lru.New[Address, Class](defaultClassCacheSize)
	if err != nil {
		// Only reachable with a non-positive size constant.
		panic(err)
	}
	return &Handler{
		resolver: resolver,
		operator: operator,
		classes:  cache,
	}
}

// Operator returns the account the handler transfers on behalf of.
func (h *Handler) Operator() Address {
	return h.operator
}

// Classify resolves the transfer standard for the contract at addr. The
// multi-unit tag is checked first, then unique; contracts advertising
// neither are fungible.
func (h *Handler) Classify(addr Address) (Class, error) {
	if class, ok := h.classes.Get(addr); ok {
		return class, nil
	}

	contract, err := h.resolver.Contract(addr)
	if err != nil {
		return ClassFungible, err
	}

	class := ClassFungible
	switch {
	case contract.SupportsCapability(CapMultiUnit):
		class = ClassMultiUnit
	case contract.SupportsCapability(CapUnique):
		class = ClassUnique
	}

	h.classes.Add(addr, class)
	return class, nil
}

// CheckCapability reports whether the contract at addr advertises tag.
func (h *Handler) CheckCapability(addr Address, tag Capability) (bool, error) {
	contract, err := h.resolver.Contract(addr)
	if err != nil {
		return false, err
	}
	return contract.SupportsCapability(tag), nil
}

// OwnerOf returns the current owner of a unit of a unique-asset contract.
func (h *Handler) OwnerOf(addr Address, unit uint64) (Address, error) {
	c, err := h.unique(addr)
	if err != nil {
		return ZeroAddress, err
	}
	return c.OwnerOf(unit)
}

// BalanceOf returns owner's balance of a unit of a multi-unit contract.
func (h *Handler) BalanceOf(addr, owner Address, unit uint64) (uint64, error) {
	c, err := h.multiUnit(addr)
	if err != nil {
		return 0, err
	}
	return c.BalanceOf(owner, unit)
}

// CanTransfer verifies that from owns (or holds enough of) the asset and
// that the operator holds the approval or allowance needed to move it.
// It returns nil when a subsequent Transfer with the same arguments is
// expected to succeed, and one of ErrNotOwner, ErrNotApproved,
// ErrInsufficientBalance or ErrInsufficientAllowance otherwise.
func (h *Handler) CanTransfer(addr, from Address, unit, quantity uint64) error {
	class, err := h.Classify(addr)
	if err != nil {
		return err
	}

	switch class {
	case ClassUnique:
		c, err := h.unique(addr)
		if err != nil {
			return err
		}
		owner, err := c.OwnerOf(unit)
		if err != nil || owner != from {
			return fmt.Errorf("%w: unit %d of %s", ErrNotOwner, unit, addr)
		}
		if ok, err := c.IsApprovedForAll(from, h.operator); err == nil && ok {
			return nil
		}
		if approved, err := c.GetApproved(unit); err == nil && approved == h.operator {
			return nil
		}
		return fmt.Errorf("%w: unit %d of %s", ErrNotApproved, unit, addr)

	case ClassMultiUnit:
		c, err := h.multiUnit(addr)
		if err != nil {
			return err
		}
		balance, err := c.BalanceOf(from, unit)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		if balance < quantity {
			return fmt.Errorf("%w: have %d of unit %d, need %d", ErrInsufficientBalance, balance, unit, quantity)
		}
		ok, err := c.IsApprovedForAll(from, h.operator)
		if err != nil || !ok {
			return fmt.Errorf("%w: unit %d of %s", ErrNotApproved, unit, addr)
		}
		return nil

	default: // ClassFungible
		c, err := h.fungible(addr)
		if err != nil {
			return err
		}
		balance, err := c.BalanceOf(from)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		if balance < quantity {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, balance, quantity)
		}
		allowance, err := c.Allowance(from, h.operator)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTransferFailed, err)
		}
		if allowance < quantity {
			return fmt.Errorf("%w: allowance %d, need %d", ErrInsufficientAllowance, allowance, quantity)
		}
		return nil
	}
}

// Transfer executes the protocol-appropriate transfer call. Callers are
// expected to have validated with CanTransfer first; any underlying failure
// comes back wrapped in ErrTransferFailed.
func (h *Handler) Transfer(addr, from, to Address, unit, quantity uint64) error {
	class, err := h.Classify(addr)
	if err != nil {
		return err
	}

	switch class {
	case ClassUnique:
		c, err := h.unique(addr)
		if err != nil {
			return err
		}
		if err := c.TransferFrom(from, to, unit); err != nil {
			return fmt.Errorf("%w: unit %d of %s: %v", ErrTransferFailed, unit, addr, err)
		}
		return nil

	case ClassMultiUnit:
		c, err := h.multiUnit(addr)
		if err != nil {
			return err
		}
		if err := c.SafeTransferFrom(from, to, unit, quantity, nil); err != nil {
			return fmt.Errorf("%w: unit %d of %s: %v", ErrTransferFailed, unit, addr, err)
		}
		return nil

	default: // ClassFungible
		c, err := h.fungible(addr)
		if err != nil {
			return err
		}
		ok, err := c.TransferFrom(h.operator, from, to, quantity)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrTransferFailed, addr, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s: transfer returned false", ErrTransferFailed, addr)
		}
		return nil
	}
}

func (h *Handler) unique(addr Address) (UniqueContract, error) {
	contract, err := h.resolver.Contract(addr)
	if err != nil {
		return nil, err
	}
	c, ok := contract.(UniqueContract)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a unique-asset registry", ErrBadContract, addr)
	}
	return c, nil
}

func (h *Handler) multiUnit(addr Address) (MultiUnitContract, error) {
	contract, err := h.resolver.Contract(addr)
	if err != nil {
		return nil, err
	}
	c, ok := contract.(MultiUnitContract)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a multi-unit registry", ErrBadContract, addr)
	}
	return c, nil
}

func (h *Handler) fungible(addr Address) (FungibleContract, error) {
	contract, err := h.resolver.Contract(addr)
	if err != nil {
		return nil, err
	}
	c, ok := contract.(FungibleContract)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a fungible-token ledger", ErrBadContract, addr)
	}
	return c, nil
}
