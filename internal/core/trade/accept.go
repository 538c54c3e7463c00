package trade

import (
	"context"
	"fmt"
	"log"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// AcceptOffer executes the swap for the offer at (key, slot). quantity is
// the amount of the requested asset the caller delivers to the maker; zero
// means the maker's declared ask, anything below the ask is rejected as an
// insufficient payment. class selects the fee configuration applied to the
// acceptance, resolved live.
//
// Acceptance is all-or-nothing: every precondition (ownership, approvals,
// fee cover) is verified before any transfer is attempted, and the ledger is
// only mutated after both legs and all fees have moved. A successful accept
// appends the offer to the historical log and tombstones the entire
// competing set under key: the requested asset has changed hands, so no
// other pending offer against it remains redeemable.
func (e *Engine) AcceptOffer(ctx context.Context, caller asset.Address, key AssetKey, slot int, quantity uint64, class CollectionClass) (*SwapResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// 1. Resolve the offer; tombstoned slots read as absent.
	_, offer, err := e.resolveLocked(key, slot)
	if err != nil {
		return nil, err
	}

	requestedQty := quantity
	if requestedQty == 0 {
		requestedQty = offer.Requested.Quantity
	}
	if requestedQty < offer.Requested.Quantity {
		return nil, fmt.Errorf("%w: offered %d of requested asset, maker asks %d",
			ErrInsufficientPayment, requestedQty, offer.Requested.Quantity)
	}

	// 2. The caller must currently hold the requested asset.
	if err := e.verifyHolderLocked(caller, offer.Requested, requestedQty); err != nil {
		return nil, err
	}

	// 3. Both legs must be transferable now. The maker's side is
	// re-validated here since ownership or approvals may have changed
	// since the offer was placed.
	if err := e.handler.CanTransfer(offer.Offered.Contract, offer.Maker, offer.Offered.Unit, offer.Offered.Quantity); err != nil {
		return nil, fmt.Errorf("%w: offered leg: %v", ErrTransferFailed, err)
	}
	if err := e.handler.CanTransfer(offer.Requested.Contract, caller, offer.Requested.Unit, requestedQty); err != nil {
		return nil, fmt.Errorf("%w: requested leg: %v", ErrTransferFailed, err)
	}

	// 4. Fees, resolved live at the charge point.
	cfg := e.configLocked(class)

	offeredClass, err := e.handler.Classify(offer.Offered.Contract)
	if err != nil {
		return nil, err
	}

	// 5. Percentage mode splits a fungible offered leg between the
	// recipient and the acceptor.
	var percentageFee uint64
	delivered := offer.Offered.Quantity
	if offeredClass == asset.ClassFungible && cfg.TakePercentageOfFungible {
		percentageFee = percentOfUint(offer.Offered.Quantity, cfg.PercentFee)
		delivered = offer.Offered.Quantity - percentageFee
	}

	var flatFee uint64
	if cfg.PayToAcceptOffer {
		if err := e.chargeFlat(caller, cfg.Recipient, cfg.AcceptOfferPrice); err != nil {
			return nil, err
		}
		flatFee = cfg.AcceptOfferPrice
	}

	// 6. Execute both transfers.
	if percentageFee > 0 {
		if err := e.handler.Transfer(offer.Offered.Contract, offer.Maker, cfg.Recipient, offer.Offered.Unit, percentageFee); err != nil {
			return nil, err
		}
	}
	if err := e.handler.Transfer(offer.Offered.Contract, offer.Maker, caller, offer.Offered.Unit, delivered); err != nil {
		return nil, err
	}
	if err := e.handler.Transfer(offer.Requested.Contract, caller, offer.Maker, offer.Requested.Unit, requestedQty); err != nil {
		return nil, err
	}

	// 7–8. Log the acceptance and invalidate the whole competing set,
	// the accepted offer included, in one atomic batch.
	batch := e.persister.NewBatch()

	histSeq := len(e.accepted[key])
	batch.AppendHistory(key, histSeq, offer)

	invalidated := 0
	for _, otherID := range e.byRequested[key] {
		if e.offers[otherID].Alive {
			batch.PutOffer(otherID, Offer{})
			invalidated++
		}
	}

	if err := batch.Commit(ctx); err != nil {
		return nil, err
	}

	e.accepted[key] = append(e.accepted[key], offer)
	for _, otherID := range e.byRequested[key] {
		if e.offers[otherID].Alive {
			e.offers[otherID] = Offer{}
		}
	}
	// 9. byOffered entries of the competing set are left to the lazy
	// liveness filter; only the arena records were scrubbed.

	if e.history != nil {
		if err := e.history.RecordAccepted(ctx, key, offer); err != nil {
			log.Printf("history mirror: record accepted offer %s[%d]: %v", key, slot, err)
		}
	}

	return &SwapResult{
		Offer:             offer,
		Slot:              OfferSlot{Key: key, Index: slot},
		Delivered:         delivered,
		RequestedQuantity: requestedQty,
		FlatFee:           flatFee,
		PercentageFee:     percentageFee,
		Invalidated:       invalidated,
	}, nil
}
