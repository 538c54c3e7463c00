package trade

import (
	"context"
	"errors"
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// AddOffer places a new offer: maker proposes to trade offered for requested.
// requested.Quantity is the maker's declared ask (meaningful for multi-unit
// requests; zero reads as 1). On success the offer is appended to both the
// requested-side and offered-side indices and its slot is returned.
func (e *Engine) AddOffer(ctx context.Context, maker asset.Address, offered, requested AssetRef, class CollectionClass) (OfferSlot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	cfg := e.configLocked(class)

	offeredClass, err := e.handler.Classify(offered.Contract)
	if err != nil {
		return OfferSlot{}, err
	}
	if offeredClass == asset.ClassFungible && !cfg.FungibleOfferingAllowed {
		return OfferSlot{}, ErrFungibleOfferingDisabled
	}

	requestedClass, err := e.handler.Classify(requested.Contract)
	if err != nil {
		return OfferSlot{}, err
	}
	if requestedClass == asset.ClassFungible {
		return OfferSlot{}, ErrFungibleNotAllowedAsTarget
	}

	offered = normalizeRef(offered, offeredClass)
	requested = normalizeRef(requested, requestedClass)

	// The maker must own the offered asset and the engine must already be
	// approved to move it. Checked here so a placed offer is acceptable
	// without further maker action; re-validated at accept time.
	if err := e.handler.CanTransfer(offered.Contract, maker, offered.Unit, offered.Quantity); err != nil {
		if errors.Is(err, asset.ErrInsufficientAllowance) {
			return OfferSlot{}, fmt.Errorf("%w: %v", ErrInsufficientAllowance, err)
		}
		return OfferSlot{}, fmt.Errorf("%w: %v", ErrNotOwnerOrNotApproved, err)
	}

	// Fee config is resolved live at the charge point.
	if cfg.PayToMakeOffer {
		if err := e.chargeFlat(maker, cfg.Recipient, cfg.MakeOfferPrice); err != nil {
			return OfferSlot{}, err
		}
	}

	offer := Offer{
		Maker:     maker,
		Offered:   offered,
		Requested: requested,
		Class:     class,
		Alive:     true,
	}

	id := e.nextID
	reqKey := requested.Key()
	offKey := offered.Key()
	reqIDs := append(append([]uint64(nil), e.byRequested[reqKey]...), id)
	offIDs := append(append([]uint64(nil), e.byOffered[offKey]...), id)

	batch := e.persister.NewBatch()
	batch.PutOffer(id, offer)
	batch.PutRequestedIndex(reqKey, reqIDs)
	batch.PutOfferedIndex(offKey, offIDs)
	batch.PutNextID(id + 1)
	if err := batch.Commit(ctx); err != nil {
		return OfferSlot{}, err
	}

	e.offers[id] = offer
	e.byRequested[reqKey] = reqIDs
	e.byOffered[offKey] = offIDs
	e.nextID = id + 1

	return OfferSlot{Key: reqKey, Index: len(reqIDs) - 1}, nil
}

// WithdrawOffer tombstones the caller's own offer at (key, slot).
func (e *Engine) WithdrawOffer(ctx context.Context, caller asset.Address, key AssetKey, slot int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, offer, err := e.resolveLocked(key, slot)
	if err != nil {
		return err
	}
	if offer.Maker != caller {
		return ErrNotOfferOwner
	}
	return e.tombstoneLocked(ctx, id)
}

// RejectOffer tombstones an offer made against an asset the caller holds.
func (e *Engine) RejectOffer(ctx context.Context, caller asset.Address, key AssetKey, slot int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	id, offer, err := e.resolveLocked(key, slot)
	if err != nil {
		return err
	}
	if err := e.verifyHolderLocked(caller, offer.Requested, 1); err != nil {
		return err
	}
	return e.tombstoneLocked(ctx, id)
}

// GetOffer returns the offer at (key, slot), or the zero offer when the
// slot is tombstoned or was never set.
func (e *Engine) GetOffer(key AssetKey, slot int) Offer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.byRequested[key]
	if slot < 0 || slot >= len(ids) {
		return Offer{}
	}
	offer := e.offers[ids[slot]]
	if !offer.Alive {
		return Offer{}
	}
	return offer
}

// GetOfferCount returns the number of live offers under key.
func (e *Engine) GetOfferCount(key AssetKey) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	count := 0
	for _, id := range e.byRequested[key] {
		if e.offers[id].Alive {
			count++
		}
	}
	return count
}

// GetOffered returns maker's live offers collateralized by the asset at key.
// Entries tombstoned by an acceptance on a different requested key are still
// referenced in the index; the liveness filter hides them here.
func (e *Engine) GetOffered(key AssetKey, maker asset.Address) []Offer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []Offer
	for _, id := range e.byOffered[key] {
		offer := e.offers[id]
		if offer.Alive && offer.Maker == maker {
			out = append(out, offer)
		}
	}
	return out
}

// GetAcceptedOffers returns the historical log of offers swapped against key.
func (e *Engine) GetAcceptedOffers(key AssetKey) []Offer {
	e.mu.RLock()
	defer e.mu.RUnlock()

	log := e.accepted[key]
	out := make([]Offer, len(log))
	copy(out, log)
	return out
}

// resolveLocked maps (key, slot) to a live arena record.
func (e *Engine) resolveLocked(key AssetKey, slot int) (uint64, Offer, error) {
	ids := e.byRequested[key]
	if slot < 0 || slot >= len(ids) {
		return 0, Offer{}, ErrOfferNotFound
	}
	id := ids[slot]
	offer := e.offers[id]
	if !offer.Alive {
		return 0, Offer{}, ErrOfferNotFound
	}
	return id, offer, nil
}

// tombstoneLocked zeroes one arena record in place and persists it. The
// record keeps its slot in every index; readers see the zero offer.
func (e *Engine) tombstoneLocked(ctx context.Context, id uint64) error {
	batch := e.persister.NewBatch()
	batch.PutOffer(id, Offer{})
	if err := batch.Commit(ctx); err != nil {
		return err
	}
	e.offers[id] = Offer{}
	return nil
}

// verifyHolderLocked checks that caller currently holds the referenced
// asset: ownership for unique assets, a sufficient balance for multi-unit.
func (e *Engine) verifyHolderLocked(caller asset.Address, ref AssetRef, quantity uint64) error {
	class, err := e.handler.Classify(ref.Contract)
	if err != nil {
		return err
	}
	switch class {
	case asset.ClassUnique:
		owner, err := e.handler.OwnerOf(ref.Contract, ref.Unit)
		if err != nil || owner != caller {
			return ErrNotRequestedAssetOwner
		}
	case asset.ClassMultiUnit:
		balance, err := e.handler.BalanceOf(ref.Contract, caller, ref.Unit)
		if err != nil || balance < quantity {
			return ErrNotRequestedAssetOwner
		}
	default:
		// Fungible assets are never a requested side; AddOffer rejects them.
		return ErrNotRequestedAssetOwner
	}
	return nil
}

// normalizeRef pins protocol-implied fields: unique assets always have
// quantity 1, fungible assets always have unit 0, and a zero multi-unit
// quantity reads as 1.
func normalizeRef(ref AssetRef, class asset.Class) AssetRef {
	switch class {
	case asset.ClassUnique:
		ref.Quantity = 1
	case asset.ClassFungible:
		ref.Unit = 0
	case asset.ClassMultiUnit:
		if ref.Quantity == 0 {
			ref.Quantity = 1
		}
	}
	return ref
}
