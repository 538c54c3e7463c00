package trade

import (
	"fmt"

	"github.com/genecyber/goNFTraded/internal/core/asset"
)

// CollectionClass is an opaque grouping key chosen by the maker. It selects
// which fee/permission configuration governs an offer; it carries no other
// meaning inside the engine.
type CollectionClass uint32

// AssetKey identifies a specific asset instance: a contract plus a unit id.
// Unit is zero for pure fungible assets.
type AssetKey struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
}

// String implements fmt.Stringer.
func (k AssetKey) String() string {
	return fmt.Sprintf("%s/%d", k.Contract, k.Unit)
}

// AssetRef is an asset instance plus a quantity. Quantity is implicitly 1
// for unique assets and meaningful for multi-unit and fungible assets.
type AssetRef struct {
	Contract asset.Address `json:"contract"`
	Unit     uint64        `json:"unit"`
	Quantity uint64        `json:"quantity"`
}

// Key returns the contract/unit key of the reference.
func (r AssetRef) Key() AssetKey {
	return AssetKey{Contract: r.Contract, Unit: r.Unit}
}

// Offer is a maker's standing proposal to trade Offered for Requested.
// Offers are tombstoned in place: once withdrawn, rejected or invalidated
// the record reads as the zero Offer but keeps its slot, so slot indices
// stay valid across unrelated removals.
type Offer struct {
	Maker     asset.Address   `json:"maker"`
	Offered   AssetRef        `json:"offered"`
	Requested AssetRef        `json:"requested"`
	Class     CollectionClass `json:"class"`
	Alive     bool            `json:"alive"`
}

// IsZero reports whether the offer is the zero (tombstoned/absent) offer.
func (o Offer) IsZero() bool {
	return !o.Alive && o.Maker.IsZero() && o.Offered == (AssetRef{}) && o.Requested == (AssetRef{})
}

// OfferSlot addresses an offer in the ledger: the requested-asset key plus
// the stable slot index under that key.
type OfferSlot struct {
	Key   AssetKey `json:"key"`
	Index int      `json:"index"`
}

// CollectionConfig is the fee/permission configuration for one collection
// class. The zero value is the disabled default: no fees, fungible offering
// disallowed. Configuration is resolved live at every charge point; offers
// never snapshot fee terms.
type CollectionConfig struct {
	PayToMakeOffer           bool          `json:"payToMakeOffer"`
	PayToAcceptOffer         bool          `json:"payToAcceptOffer"`
	MakeOfferPrice           uint64        `json:"makeOfferPrice"`
	AcceptOfferPrice         uint64        `json:"acceptOfferPrice"`
	PercentFee               uint64        `json:"percentFee"`
	TakePercentageOfFungible bool          `json:"takePercentageOfFungible"`
	FungibleOfferingAllowed  bool          `json:"fungibleOfferingAllowed"`
	Recipient                asset.Address `json:"recipientAddress"`
}

// SwapResult reports what an accepted offer moved.
type SwapResult struct {
	// Offer is the offer that was accepted, as it stood at acceptance.
	Offer Offer `json:"offer"`

	// Slot is the accepted offer's address in the ledger.
	Slot OfferSlot `json:"slot"`

	// Delivered is the quantity of the offered asset delivered to the
	// acceptor (net of any percentage fee).
	Delivered uint64 `json:"delivered"`

	// RequestedQuantity is the quantity of the requested asset delivered
	// to the maker.
	RequestedQuantity uint64 `json:"requestedQuantity"`

	// FlatFee is the accept-offer flat fee charged to the acceptor.
	FlatFee uint64 `json:"flatFee"`

	// PercentageFee is the slice of a fungible offered leg routed to the
	// fee recipient.
	PercentageFee uint64 `json:"percentageFee"`

	// Invalidated is the number of competing offers tombstoned by the
	// acceptance, including the accepted offer itself.
	Invalidated int `json:"invalidated"`
}
