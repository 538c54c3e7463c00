package trade

import "errors"

// Engine failure kinds. None are retriable by the engine itself; callers
// re-submit with corrected inputs. Every failure aborts the whole operation
// before any ledger mutation.
var (
	// ErrNotOwnerOrNotApproved: the maker does not own the offered asset,
	// or the engine's operator account lacks approval to move it.
	ErrNotOwnerOrNotApproved = errors.New("sender not owner of asset or handler unable to transfer")

	// ErrNotRequestedAssetOwner: the caller does not currently hold the
	// requested asset.
	ErrNotRequestedAssetOwner = errors.New("sender is not owner of requested asset")

	// ErrNotOfferOwner: only the maker may withdraw an offer.
	ErrNotOfferOwner = errors.New("sender is not owner of offer")

	// ErrOfferNotFound: the slot is absent or tombstoned.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrTransferFailed: an asset-handler transfer check or call failed.
	ErrTransferFailed = errors.New("handler unable to transfer asset")

	// ErrFungibleOfferingDisabled: fungible tokens may not be offered
	// under this collection class.
	ErrFungibleOfferingDisabled = errors.New("not allowed to make offers with fungible tokens")

	// ErrFungibleNotAllowedAsTarget: fungible assets cannot be the
	// requested side of an offer.
	ErrFungibleNotAllowedAsTarget = errors.New("not allowed to make offers for fungible tokens")

	// ErrInsufficientPayment: the payer cannot cover a configured fee.
	ErrInsufficientPayment = errors.New("insufficient balance for payment")

	// ErrInsufficientAllowance: a fungible offered leg is not covered by
	// the maker's allowance to the engine's operator.
	ErrInsufficientAllowance = errors.New("not enough allowance")

	// ErrNegativePercent: PercentOf rejects negative arguments.
	ErrNegativePercent = errors.New("percentage arguments must be non-negative")

	// ErrPercentFeeTooHigh: the percentage fee is capped at 100 so a fee
	// can never exceed the fungible leg it is taken from.
	ErrPercentFeeTooHigh = errors.New("percentage fee cannot exceed 100")

	// ErrNotAuthorized: configuration mutators are restricted to the
	// administrative account.
	ErrNotAuthorized = errors.New("caller is not the administrator")
)
