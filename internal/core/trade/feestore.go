package trade

import (
	"context"
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// GetConfig returns the configuration for a collection class. Unset classes
// read as the zero (all fees off, fungible offering disallowed) config.
func (e *Engine) GetConfig(class CollectionClass) CollectionConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.configs[class]
}

// configLocked resolves a class config under the engine lock. Configuration
// is always read live at the charge point; nothing caches it on offers.
func (e *Engine) configLocked(class CollectionClass) CollectionConfig {
	return e.configs[class]
}

// mutateConfig runs an admin mutation against a class config and persists
// the result. The first write to a class seeds the recipient with the
// engine's default fee recipient.
func (e *Engine) mutateConfig(ctx context.Context, caller asset.Address, class CollectionClass, fn func(*CollectionConfig)) error {
	if caller != e.admin {
		return ErrNotAuthorized
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cfg, exists := e.configs[class]
	if !exists || cfg.Recipient.IsZero() {
		cfg.Recipient = e.feeRecipient
	}
	fn(&cfg)

	batch := e.persister.NewBatch()
	batch.PutConfig(class, cfg)
	if err := batch.Commit(ctx); err != nil {
		return err
	}

	e.configs[class] = cfg
	return nil
}

// TogglePayToMakeOffer flips whether adding an offer under class costs the
// flat make-offer fee.
func (e *Engine) TogglePayToMakeOffer(ctx context.Context, caller asset.Address, class CollectionClass) error {
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.PayToMakeOffer = !c.PayToMakeOffer
	})
}

// TogglePayToAcceptOffer flips whether accepting an offer under class costs
// the flat accept-offer fee.
func (e *Engine) TogglePayToAcceptOffer(ctx context.Context, caller asset.Address, class CollectionClass) error {
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.PayToAcceptOffer = !c.PayToAcceptOffer
	})
}

// ToggleFungibleOffering flips whether fungible tokens may be the offered
// side of an offer under class.
func (e *Engine) ToggleFungibleOffering(ctx context.Context, caller asset.Address, class CollectionClass) error {
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.FungibleOfferingAllowed = !c.FungibleOfferingAllowed
	})
}

// ToggleTakePercentageOfFungible flips percentage-fee mode for fungible
// offered legs under class.
func (e *Engine) ToggleTakePercentageOfFungible(ctx context.Context, caller asset.Address, class CollectionClass) error {
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.TakePercentageOfFungible = !c.TakePercentageOfFungible
	})
}

// SetOfferPrices sets the flat make/accept prices and the percentage fee for
// class in one call. The percentage fee must not exceed 100: a larger value
// would make the fee outgrow the offered leg it is carved out of.
func (e *Engine) SetOfferPrices(ctx context.Context, caller asset.Address, class CollectionClass, makePrice, acceptPrice, percentFee uint64) error {
	if percentFee > 100 {
		return fmt.Errorf("%w: got %d", ErrPercentFeeTooHigh, percentFee)
	}
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.MakeOfferPrice = makePrice
		c.AcceptOfferPrice = acceptPrice
		c.PercentFee = percentFee
	})
}

// SetRecipient changes the fee recipient for class.
func (e *Engine) SetRecipient(ctx context.Context, caller asset.Address, class CollectionClass, recipient asset.Address) error {
	return e.mutateConfig(ctx, caller, class, func(c *CollectionConfig) {
		c.Recipient = recipient
	})
}

// chargeFlat moves a flat fee in the payment token from payer to recipient.
// Both the balance and the allowance are verified before the transfer is
// attempted; a shortfall of either is an ErrInsufficientPayment.
func (e *Engine) chargeFlat(payer, recipient asset.Address, price uint64) error {
	if price == 0 {
		return nil
	}
	if err := e.handler.CanTransfer(e.paymentToken, payer, 0, price); err != nil {
		return ErrInsufficientPayment
	}
	if err := e.handler.Transfer(e.paymentToken, payer, recipient, 0, price); err != nil {
		return ErrInsufficientPayment
	}
	return nil
}
