package asset

import "errors"

var (
	// ErrUnknownContract is returned when the resolver has no contract at
	// the requested address.
	ErrUnknownContract = errors.New("unknown contract address")

	// ErrBadContract is returned when a contract advertises a capability
	// it does not actually implement.
	ErrBadContract = errors.New("contract does not implement advertised standard")

	// ErrNotOwner is returned by CanTransfer when the sender does not own
	// (or hold enough of) the asset.
	ErrNotOwner = errors.New("sender not owner of asset")

	// ErrNotApproved is returned by CanTransfer when the operating account
	// has not been granted approval to move the asset.
	ErrNotApproved = errors.New("handler not approved to transfer asset")

	// ErrInsufficientBalance is returned by CanTransfer on a fungible or
	// multi-unit balance shortfall.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned by CanTransfer when a fungible
	// allowance does not cover the requested quantity.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrTransferFailed wraps any underlying transfer call failure.
	ErrTransferFailed = errors.New("handler transfer failed")
)
